package jvmtest

// Entry points called by the C tables in fake_table.c. The preamble may only
// hold declarations because this file has exports.

/*
#cgo CFLAGS: -I${SRCDIR} -I${SRCDIR}/..
#include "fake.h"
*/
import "C"
import (
	"runtime/cgo"
	"unsafe"
)

func fakeFor(h C.uintptr_t) *Fake {
	return cgo.Handle(h).Value().(*Fake)
}

// argList reads n jvalue object slots.
func argList(args *C.uintptr_t, n int) []uintptr {
	if args == nil || n == 0 {
		return nil
	}
	raw := unsafe.Slice(args, n)
	out := make([]uintptr, n)
	for i, a := range raw {
		out[i] = uintptr(a)
	}
	return out
}

//export jvmtestGetVersion
func jvmtestGetVersion(h C.uintptr_t) C.jint {
	return C.jint(fakeFor(h).getVersion())
}

//export jvmtestFindClass
func jvmtestFindClass(h C.uintptr_t, name *C.char) C.uintptr_t {
	return C.uintptr_t(fakeFor(h).findClass(C.GoString(name)))
}

//export jvmtestExceptionOccurred
func jvmtestExceptionOccurred(h C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(fakeFor(h).exceptionOccurred())
}

//export jvmtestExceptionDescribe
func jvmtestExceptionDescribe(h C.uintptr_t) {
	fakeFor(h).exceptionDescribe()
}

//export jvmtestExceptionClear
func jvmtestExceptionClear(h C.uintptr_t) {
	fakeFor(h).exceptionClear()
}

//export jvmtestGetMethodID
func jvmtestGetMethodID(h C.uintptr_t, clazz C.uintptr_t, name, sig *C.char, isStatic C.int) C.uintptr_t {
	return C.uintptr_t(fakeFor(h).getMethodID(uintptr(clazz), C.GoString(name), C.GoString(sig), isStatic != 0))
}

//export jvmtestNewObjectA
func jvmtestNewObjectA(h C.uintptr_t, clazz, method C.uintptr_t, args *C.uintptr_t) C.uintptr_t {
	f := fakeFor(h)
	n := f.argCount(uintptr(method))
	return C.uintptr_t(f.newObject(uintptr(clazz), uintptr(method), argList(args, n)))
}

//export jvmtestCallMethodA
func jvmtestCallMethodA(h C.uintptr_t, obj, method C.uintptr_t, args *C.uintptr_t, isVoid C.int) C.uintptr_t {
	f := fakeFor(h)
	n := f.argCount(uintptr(method))
	return C.uintptr_t(f.callMethod(uintptr(obj), uintptr(method), argList(args, n), isVoid != 0))
}

//export jvmtestCallStaticMethodA
func jvmtestCallStaticMethodA(h C.uintptr_t, clazz, method C.uintptr_t, args *C.uintptr_t, isVoid C.int) C.uintptr_t {
	f := fakeFor(h)
	n := f.argCount(uintptr(method))
	return C.uintptr_t(f.callStaticMethod(uintptr(clazz), uintptr(method), argList(args, n), isVoid != 0))
}

//export jvmtestNewStringUTF
func jvmtestNewStringUTF(h C.uintptr_t, utf *C.char) C.uintptr_t {
	return C.uintptr_t(fakeFor(h).newString(C.GoString(utf)))
}

//export jvmtestNewObjectArray
func jvmtestNewObjectArray(h C.uintptr_t, length C.jsize, clazz, initial C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(fakeFor(h).newObjectArray(int(length), uintptr(clazz), uintptr(initial)))
}

//export jvmtestSetObjectArrayElement
func jvmtestSetObjectArrayElement(h C.uintptr_t, array C.uintptr_t, index C.jsize, val C.uintptr_t) {
	fakeFor(h).setObjectArrayElement(uintptr(array), int(index), uintptr(val))
}

//export jvmtestDestroyJavaVM
func jvmtestDestroyJavaVM(h C.uintptr_t) C.jint {
	return C.jint(fakeFor(h).destroy())
}

//export jvmtestAttachCurrentThread
func jvmtestAttachCurrentThread(h C.uintptr_t, penv **C.JNIEnv) C.jint {
	f := fakeFor(h)
	status := f.attach()
	if status == 0 {
		*penv = (*C.JNIEnv)(f.env)
	}
	return C.jint(status)
}

//export jvmtestCreateJavaVM
func jvmtestCreateJavaVM(pvm **C.JavaVM, penv **C.JNIEnv, args *C.JavaVMInitArgs) C.jint {
	f := creating()
	if f == nil {
		return C.jint(-1)
	}
	var options []string
	if args != nil && args.nOptions > 0 {
		for _, opt := range unsafe.Slice(args.options, int(args.nOptions)) {
			options = append(options, C.GoString(opt.optionString))
		}
	}
	var version int32
	if args != nil {
		version = int32(args.version)
	}
	status := f.create(version, options)
	if status == 0 {
		*pvm = (*C.JavaVM)(f.vm)
		*penv = (*C.JNIEnv)(f.env)
		if f.EmptyTable {
			*penv = (*C.JNIEnv)(f.empty)
		}
	}
	return C.jint(status)
}

func newEnv(h cgo.Handle, empty bool) unsafe.Pointer {
	if empty {
		return unsafe.Pointer(C.jvmtest_new_empty_env(C.uintptr_t(h)))
	}
	return unsafe.Pointer(C.jvmtest_new_env(C.uintptr_t(h)))
}

func newVM(h cgo.Handle) unsafe.Pointer {
	return unsafe.Pointer(C.jvmtest_new_vm(C.uintptr_t(h)))
}

func free(p unsafe.Pointer) {
	C.jvmtest_free(p)
}

func createFunc() unsafe.Pointer {
	return C.jvmtest_create_func()
}
