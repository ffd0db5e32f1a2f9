package jvm

/*
#cgo CFLAGS: -I${SRCDIR}
#include <stdlib.h>
#include "jni_abi.h"

// cgo cannot call through C function pointers, so every slot is reached
// through a helper. Handles cross the boundary as uintptr_t.

static jint env_get_version(JNIEnv* env) {
	return env->functions->GetVersion(env);
}

static uintptr_t env_find_class(JNIEnv* env, const char* name) {
	return (uintptr_t)env->functions->FindClass(env, name);
}

static uintptr_t env_get_method_id(JNIEnv* env, uintptr_t clazz, const char* name, const char* sig) {
	return (uintptr_t)env->functions->GetMethodID(env, (jclass)clazz, name, sig);
}

static uintptr_t env_get_static_method_id(JNIEnv* env, uintptr_t clazz, const char* name, const char* sig) {
	return (uintptr_t)env->functions->GetStaticMethodID(env, (jclass)clazz, name, sig);
}

static uintptr_t env_new_object_a(JNIEnv* env, uintptr_t clazz, uintptr_t method, const jvalue* args) {
	return (uintptr_t)env->functions->NewObjectA(env, (jclass)clazz, (jmethodID)method, args);
}

static uintptr_t env_call_object_method_a(JNIEnv* env, uintptr_t obj, uintptr_t method, const jvalue* args) {
	return (uintptr_t)env->functions->CallObjectMethodA(env, (jobject)obj, (jmethodID)method, args);
}

static void env_call_void_method_a(JNIEnv* env, uintptr_t obj, uintptr_t method, const jvalue* args) {
	env->functions->CallVoidMethodA(env, (jobject)obj, (jmethodID)method, args);
}

static uintptr_t env_call_static_object_method_a(JNIEnv* env, uintptr_t clazz, uintptr_t method, const jvalue* args) {
	return (uintptr_t)env->functions->CallStaticObjectMethodA(env, (jclass)clazz, (jmethodID)method, args);
}

static void env_call_static_void_method_a(JNIEnv* env, uintptr_t clazz, uintptr_t method, const jvalue* args) {
	env->functions->CallStaticVoidMethodA(env, (jclass)clazz, (jmethodID)method, args);
}

static uintptr_t env_new_string_utf(JNIEnv* env, const char* utf) {
	return (uintptr_t)env->functions->NewStringUTF(env, utf);
}

static uintptr_t env_new_object_array(JNIEnv* env, jsize len, uintptr_t clazz, uintptr_t init) {
	return (uintptr_t)env->functions->NewObjectArray(env, len, (jclass)clazz, (jobject)init);
}

static void env_set_object_array_element(JNIEnv* env, uintptr_t array, jsize index, uintptr_t val) {
	env->functions->SetObjectArrayElement(env, (jobjectArray)array, index, (jobject)val);
}

static uintptr_t env_exception_occurred(JNIEnv* env) {
	return (uintptr_t)env->functions->ExceptionOccurred(env);
}

static void env_exception_describe(JNIEnv* env) {
	env->functions->ExceptionDescribe(env);
}

static void env_exception_clear(JNIEnv* env) {
	env->functions->ExceptionClear(env);
}

static int env_implemented(JNIEnv* env) {
	const struct JNINativeInterface* f = env->functions;
	return f != NULL &&
		f->GetVersion != NULL &&
		f->FindClass != NULL &&
		f->GetMethodID != NULL &&
		f->GetStaticMethodID != NULL &&
		f->NewObjectA != NULL &&
		f->CallObjectMethodA != NULL &&
		f->CallVoidMethodA != NULL &&
		f->CallStaticObjectMethodA != NULL &&
		f->CallStaticVoidMethodA != NULL &&
		f->NewStringUTF != NULL &&
		f->NewObjectArray != NULL &&
		f->SetObjectArrayElement != NULL &&
		f->ExceptionOccurred != NULL &&
		f->ExceptionDescribe != NULL &&
		f->ExceptionClear != NULL;
}
*/
import "C"
import (
	"unsafe"
)

// Env is a JNIEnv: the per-thread environment table. It must only be used
// on the OS thread that created or attached it.
type Env struct {
	env *C.JNIEnv
}

// NewEnv wraps a JNIEnv pointer obtained outside this package.
func NewEnv(ptr unsafe.Pointer) *Env {
	if ptr == nil {
		return nil
	}
	return &Env{env: (*C.JNIEnv)(ptr)}
}

// Pointer returns the underlying JNIEnv pointer.
func (e *Env) Pointer() unsafe.Pointer {
	return unsafe.Pointer(e.env)
}

// Implemented reports whether every slot used by Env is populated.
func (e *Env) Implemented() bool {
	return e.env != nil && C.env_implemented(e.env) != 0
}

// Version calls GetVersion.
func (e *Env) Version() Version {
	return Version(C.env_get_version(e.env))
}

// FindClass resolves a class by its internal name, e.g. "java/lang/String".
func (e *Env) FindClass(name string) Class {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return Class(C.env_find_class(e.env, cName))
}

// GetMethodID resolves an instance method by name and descriptor.
func (e *Env) GetMethodID(clazz Class, name, sig string) MethodID {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cSig := C.CString(sig)
	defer C.free(unsafe.Pointer(cSig))
	return MethodID(C.env_get_method_id(e.env, C.uintptr_t(clazz), cName, cSig))
}

// GetStaticMethodID resolves a static method by name and descriptor.
func (e *Env) GetStaticMethodID(clazz Class, name, sig string) MethodID {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cSig := C.CString(sig)
	defer C.free(unsafe.Pointer(cSig))
	return MethodID(C.env_get_static_method_id(e.env, C.uintptr_t(clazz), cName, cSig))
}

// NewObject calls NewObjectA with the given constructor.
func (e *Env) NewObject(clazz Class, ctor MethodID, args ...Value) Object {
	return Object(C.env_new_object_a(e.env, C.uintptr_t(clazz), C.uintptr_t(ctor), jvalues(args)))
}

// CallObjectMethod calls CallObjectMethodA.
func (e *Env) CallObjectMethod(obj Object, method MethodID, args ...Value) Object {
	return Object(C.env_call_object_method_a(e.env, C.uintptr_t(obj), C.uintptr_t(method), jvalues(args)))
}

// CallVoidMethod calls CallVoidMethodA.
func (e *Env) CallVoidMethod(obj Object, method MethodID, args ...Value) {
	C.env_call_void_method_a(e.env, C.uintptr_t(obj), C.uintptr_t(method), jvalues(args))
}

// CallStaticObjectMethod calls CallStaticObjectMethodA.
func (e *Env) CallStaticObjectMethod(clazz Class, method MethodID, args ...Value) Object {
	return Object(C.env_call_static_object_method_a(e.env, C.uintptr_t(clazz), C.uintptr_t(method), jvalues(args)))
}

// CallStaticVoidMethod calls CallStaticVoidMethodA.
func (e *Env) CallStaticVoidMethod(clazz Class, method MethodID, args ...Value) {
	C.env_call_static_void_method_a(e.env, C.uintptr_t(clazz), C.uintptr_t(method), jvalues(args))
}

// NewStringUTF creates a java.lang.String from s. The JVM expects modified
// UTF-8; s must not contain NUL.
func (e *Env) NewStringUTF(s string) String {
	cStr := C.CString(s)
	defer C.free(unsafe.Pointer(cStr))
	return String(C.env_new_string_utf(e.env, cStr))
}

// NewObjectArray creates an array of length elements of class elem, each set
// to init.
func (e *Env) NewObjectArray(length int32, elem Class, init Object) ObjectArray {
	return ObjectArray(C.env_new_object_array(e.env, C.jsize(length), C.uintptr_t(elem), C.uintptr_t(init)))
}

// SetObjectArrayElement stores val at index.
func (e *Env) SetObjectArrayElement(array ObjectArray, index int32, val Object) {
	C.env_set_object_array_element(e.env, C.uintptr_t(array), C.jsize(index), C.uintptr_t(val))
}

// ExceptionOccurred returns the pending exception or Null.
func (e *Env) ExceptionOccurred() Throwable {
	return Throwable(C.env_exception_occurred(e.env))
}

// ExceptionDescribe prints the pending exception and its stack trace to the
// JVM's stderr.
func (e *Env) ExceptionDescribe() {
	C.env_exception_describe(e.env)
}

// ExceptionClear clears the pending exception.
func (e *Env) ExceptionClear() {
	C.env_exception_clear(e.env)
}

// jvalues passes args as a jvalue array. Value and jvalue have the same size
// and args holds no Go pointers, so it can be handed to C directly.
func jvalues(args []Value) *C.jvalue {
	if len(args) == 0 {
		return nil
	}
	return (*C.jvalue)(unsafe.Pointer(&args[0]))
}
