// Package jvmtest provides an in-process fake JVM for tests. It hands out
// real JNI call tables whose implemented slots forward to a small Go model
// of the classes, objects and thread state the bootstrap sequence touches,
// so code under test goes through the same C dispatch as with a real JVM.
//
// A Fake is not safe for concurrent use.
package jvmtest

import (
	"fmt"
	"runtime/cgo"
	"strings"
	"sync"
	"unsafe"

	"github.com/code-disaster/jni-go/jvm"
)

// Call is one recorded call through the environment or invocation table.
type Call struct {
	Op     string
	Detail string
}

func (c Call) String() string {
	if c.Detail == "" {
		return c.Op
	}
	return c.Op + " " + c.Detail
}

// Invocation records a static void method call, typically main.
type Invocation struct {
	Class  string
	Method string
	Sig    string
	Args   []string
}

type rule struct {
	op, detail string
	throw      string
}

type method struct {
	class  string
	name   string
	sig    string
	static bool
}

type object struct {
	class string
	value string
}

// Fake is a scripted JVM. Handles are small non-zero integers; Null is
// returned only when a rule or the model says so.
type Fake struct {
	// Version is returned by GetVersion.
	Version jvm.Version
	// CreateStatus is returned by the JNI_CreateJavaVM function.
	CreateStatus jvm.Status
	// DestroyStatus is returned by DestroyJavaVM.
	DestroyStatus jvm.Status
	// EmptyTable makes the created environment table have no slots.
	EmptyTable bool

	handle cgo.Handle
	env    unsafe.Pointer
	empty  unsafe.Pointer
	vm     unsafe.Pointer

	next     uintptr
	classes  map[string]uintptr
	methods  map[uintptr]method
	methodID map[string]uintptr
	objects  map[uintptr]object
	arrays   map[uintptr][]uintptr
	missing  map[string]bool
	rules    []rule

	pending       uintptr
	systemLoader  uintptr
	contextLoader uintptr
	thread        uintptr

	calls       []Call
	invocations []Invocation
	created     []string
	createdVer  jvm.Version
	destroyed   bool
	attached    int
}

// New returns a fake whose context class loader is the system loader.
func New() *Fake {
	f := &Fake{
		Version:  jvm.Version1_8,
		next:     0x1000,
		classes:  map[string]uintptr{},
		methods:  map[uintptr]method{},
		methodID: map[string]uintptr{},
		objects:  map[uintptr]object{},
		arrays:   map[uintptr][]uintptr{},
		missing:  map[string]bool{},
	}
	f.handle = cgo.NewHandle(f)
	f.env = newEnv(f.handle, false)
	f.empty = newEnv(f.handle, true)
	f.vm = newVM(f.handle)
	f.systemLoader = f.alloc(object{class: "jdk/internal/loader/ClassLoaders$AppClassLoader"})
	f.contextLoader = f.systemLoader
	return f
}

// Close releases the C tables. Envs and VMs obtained from f become invalid.
func (f *Fake) Close() {
	if f.env == nil {
		return
	}
	free(f.env)
	free(f.empty)
	free(f.vm)
	f.env, f.empty, f.vm = nil, nil, nil
	f.handle.Delete()
}

// Env returns an environment wired to the fake tables.
func (f *Fake) Env() *jvm.Env {
	return jvm.NewEnv(f.env)
}

// EmptyEnv returns an environment whose table has no populated slots.
func (f *Fake) EmptyEnv() *jvm.Env {
	return jvm.NewEnv(f.empty)
}

// VM returns an invocation interface wired to the fake tables.
func (f *Fake) VM() *jvm.VM {
	return jvm.NewVM(f.vm)
}

var (
	creatingMu sync.Mutex
	creatingFk *Fake
)

// CreateFunc returns a C function pointer with the JNI_CreateJavaVM
// signature that creates this fake. Only the fake that called CreateFunc
// most recently is reachable through the pointer.
func (f *Fake) CreateFunc() unsafe.Pointer {
	creatingMu.Lock()
	creatingFk = f
	creatingMu.Unlock()
	return createFunc()
}

func creating() *Fake {
	creatingMu.Lock()
	defer creatingMu.Unlock()
	return creatingFk
}

// FailOn makes the first call matching op (and detail, when not empty)
// return Null without raising an exception.
func (f *Fake) FailOn(op, detail string) {
	f.rules = append(f.rules, rule{op: op, detail: detail})
}

// ThrowOn makes the first call matching op (and detail, when not empty)
// leave an exception of class exc pending. The call still returns its
// normal result.
func (f *Fake) ThrowOn(op, detail, exc string) {
	f.rules = append(f.rules, rule{op: op, detail: detail, throw: exc})
}

// Missing makes FindClass and ClassLoader.loadClass fail for name, given in
// either binary ("a.b.C") or internal ("a/b/C") form.
func (f *Fake) Missing(name string) {
	f.missing[internalName(name)] = true
}

// Calls returns every call recorded so far, in order.
func (f *Fake) Calls() []Call {
	return append([]Call(nil), f.calls...)
}

// Ops returns the recorded calls excluding exception bookkeeping
// (ExceptionOccurred, ExceptionDescribe, ExceptionClear).
func (f *Fake) Ops() []Call {
	var out []Call
	for _, c := range f.calls {
		if !strings.HasPrefix(c.Op, "Exception") {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many recorded calls have the given op.
func (f *Fake) Count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Pending returns the pending exception, or Null.
func (f *Fake) Pending() jvm.Throwable {
	return jvm.Throwable(f.pending)
}

// SystemLoader returns the loader installed before any bootstrap.
func (f *Fake) SystemLoader() jvm.Object {
	return jvm.Object(f.systemLoader)
}

// ContextLoader returns the current thread's context class loader.
func (f *Fake) ContextLoader() jvm.Object {
	return jvm.Object(f.contextLoader)
}

// ClassName returns the internal name of a class handle.
func (f *Fake) ClassName(c jvm.Class) string {
	for name, h := range f.classes {
		if h == uintptr(c) {
			return name
		}
	}
	return ""
}

// Describe returns "class(value)" for an object handle.
func (f *Fake) Describe(o jvm.Object) string {
	obj, ok := f.objects[uintptr(o)]
	if !ok {
		return ""
	}
	if obj.value == "" {
		return obj.class
	}
	return fmt.Sprintf("%s(%s)", obj.class, obj.value)
}

// StringValue returns the contents of a string handle.
func (f *Fake) StringValue(s jvm.String) string {
	return f.objects[uintptr(s)].value
}

// ArrayStrings returns the string contents of an object array.
func (f *Fake) ArrayStrings(a jvm.ObjectArray) []string {
	elems := f.arrays[uintptr(a)]
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = f.objects[e].value
	}
	return out
}

// Invocations returns the static void method calls made so far.
func (f *Fake) Invocations() []Invocation {
	return append([]Invocation(nil), f.invocations...)
}

// CreatedOptions returns the options passed to JNI_CreateJavaVM.
func (f *Fake) CreatedOptions() []string {
	return append([]string(nil), f.created...)
}

// CreatedVersion returns the version passed to JNI_CreateJavaVM.
func (f *Fake) CreatedVersion() jvm.Version {
	return f.createdVer
}

// Destroyed reports whether DestroyJavaVM was called.
func (f *Fake) Destroyed() bool {
	return f.destroyed
}

// Attached returns the number of AttachCurrentThread calls.
func (f *Fake) Attached() int {
	return f.attached
}

func (f *Fake) alloc(o object) uintptr {
	f.next += 8
	f.objects[f.next] = o
	return f.next
}

// record logs the call and applies the first matching rule.
func (f *Fake) record(op, detail string) (fail bool) {
	f.calls = append(f.calls, Call{Op: op, Detail: detail})
	for i, r := range f.rules {
		if r.op != op || (r.detail != "" && r.detail != detail) {
			continue
		}
		f.rules = append(f.rules[:i], f.rules[i+1:]...)
		if r.throw != "" {
			f.raise(r.throw, detail)
			return false
		}
		return true
	}
	return false
}

func (f *Fake) raise(class, message string) {
	f.pending = f.alloc(object{class: class, value: message})
}

func (f *Fake) getVersion() int32 {
	f.record("GetVersion", "")
	return int32(f.Version)
}

func (f *Fake) classHandle(name string) uintptr {
	if h, ok := f.classes[name]; ok {
		return h
	}
	h := f.alloc(object{class: "java/lang/Class", value: name})
	f.classes[name] = h
	return h
}

func (f *Fake) findClass(name string) uintptr {
	if f.record("FindClass", name) {
		return 0
	}
	if f.missing[name] {
		f.raise("java/lang/NoClassDefFoundError", name)
		return 0
	}
	return f.classHandle(name)
}

func (f *Fake) exceptionOccurred() uintptr {
	f.record("ExceptionOccurred", "")
	return f.pending
}

func (f *Fake) exceptionDescribe() {
	detail := ""
	if f.pending != 0 {
		detail = f.Describe(jvm.Object(f.pending))
	}
	f.record("ExceptionDescribe", detail)
}

func (f *Fake) exceptionClear() {
	f.record("ExceptionClear", "")
	f.pending = 0
}

func (f *Fake) getMethodID(clazz uintptr, name, sig string, static bool) uintptr {
	className := f.objects[clazz].value
	op := "GetMethodID"
	if static {
		op = "GetStaticMethodID"
	}
	if f.record(op, className+"."+name+sig) {
		return 0
	}
	key := fmt.Sprintf("%s.%s%s/%t", className, name, sig, static)
	if id, ok := f.methodID[key]; ok {
		return id
	}
	f.next += 8
	id := f.next
	f.methodID[key] = id
	f.methods[id] = method{class: className, name: name, sig: sig, static: static}
	return id
}

// argCount returns the number of parameters in the method descriptor.
func (f *Fake) argCount(id uintptr) int {
	m, ok := f.methods[id]
	if !ok {
		return 0
	}
	return descriptorArgs(m.sig)
}

func (f *Fake) newObject(clazz, ctor uintptr, args []uintptr) uintptr {
	className := f.objects[clazz].value
	value := ""
	if len(args) == 1 {
		value = f.objects[args[0]].value
	}
	if f.record("NewObjectA", fmt.Sprintf("%s(%s)", className, value)) {
		return 0
	}
	return f.alloc(object{class: className, value: value})
}

func (f *Fake) callMethod(obj, id uintptr, args []uintptr, void bool) uintptr {
	m := f.methods[id]
	op := "CallObjectMethodA"
	if void {
		op = "CallVoidMethodA"
	}
	if f.record(op, m.class+"."+m.name) {
		return 0
	}
	switch m.name {
	case "getContextClassLoader":
		return f.contextLoader
	case "setContextClassLoader":
		if len(args) == 1 {
			f.contextLoader = args[0]
		}
		return 0
	case "loadClass":
		if len(args) != 1 {
			return 0
		}
		name := internalName(f.objects[args[0]].value)
		if f.missing[name] {
			f.raise("java/lang/ClassNotFoundException", f.objects[args[0]].value)
			return 0
		}
		return f.classHandle(name)
	}
	return f.alloc(object{class: strings.TrimPrefix(returnType(m.sig), "L")})
}

func (f *Fake) callStaticMethod(clazz, id uintptr, args []uintptr, void bool) uintptr {
	m := f.methods[id]
	op := "CallStaticObjectMethodA"
	if void {
		op = "CallStaticVoidMethodA"
	}
	if f.record(op, m.class+"."+m.name) {
		return 0
	}
	switch m.name {
	case "currentThread":
		if f.thread == 0 {
			f.thread = f.alloc(object{class: "java/lang/Thread", value: "main"})
		}
		return f.thread
	case "newInstance":
		urls := ""
		if len(args) > 0 {
			urls = strings.Join(f.objectValues(f.arrays[args[0]]), ",")
		}
		return f.alloc(object{class: "java/net/URLClassLoader", value: urls})
	}
	if void {
		inv := Invocation{Class: f.objects[clazz].value, Method: m.name, Sig: m.sig}
		if len(args) == 1 {
			if elems, ok := f.arrays[args[0]]; ok {
				inv.Args = f.objectValues(elems)
			}
		}
		f.invocations = append(f.invocations, inv)
		return 0
	}
	return f.alloc(object{class: strings.TrimPrefix(returnType(m.sig), "L")})
}

func (f *Fake) objectValues(handles []uintptr) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = f.objects[h].value
	}
	return out
}

func (f *Fake) newString(s string) uintptr {
	if f.record("NewStringUTF", s) {
		return 0
	}
	return f.alloc(object{class: "java/lang/String", value: s})
}

func (f *Fake) newObjectArray(length int, clazz, init uintptr) uintptr {
	className := f.objects[clazz].value
	if f.record("NewObjectArray", fmt.Sprintf("%s[%d]", className, length)) {
		return 0
	}
	if length < 0 {
		f.raise("java/lang/NegativeArraySizeException", fmt.Sprint(length))
		return 0
	}
	elems := make([]uintptr, length)
	for i := range elems {
		elems[i] = init
	}
	h := f.alloc(object{class: "[L" + className + ";"})
	f.arrays[h] = elems
	return h
}

func (f *Fake) setObjectArrayElement(array uintptr, index int, val uintptr) {
	f.record("SetObjectArrayElement", fmt.Sprintf("[%d]", index))
	elems := f.arrays[array]
	if index < 0 || index >= len(elems) {
		f.raise("java/lang/ArrayIndexOutOfBoundsException", fmt.Sprint(index))
		return
	}
	elems[index] = val
}

func (f *Fake) destroy() int32 {
	f.record("DestroyJavaVM", "")
	f.destroyed = true
	return int32(f.DestroyStatus)
}

func (f *Fake) attach() int32 {
	f.record("AttachCurrentThread", "")
	f.attached++
	return 0
}

func (f *Fake) create(version int32, options []string) int32 {
	f.record("JNI_CreateJavaVM", strings.Join(options, " "))
	f.created = options
	f.createdVer = jvm.Version(version)
	return int32(f.CreateStatus)
}

func internalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// descriptorArgs counts the parameters of a method descriptor such as
// "([Ljava/lang/String;I)V".
func descriptorArgs(sig string) int {
	end := strings.IndexByte(sig, ')')
	if !strings.HasPrefix(sig, "(") || end < 0 {
		return 0
	}
	params := sig[1:end]
	n := 0
	for i := 0; i < len(params); i++ {
		for i < len(params)-1 && params[i] == '[' {
			i++
		}
		if params[i] == 'L' {
			i += strings.IndexByte(params[i:], ';')
		}
		n++
	}
	return n
}

// returnType returns the return part of a method descriptor without a
// trailing ';'.
func returnType(sig string) string {
	end := strings.IndexByte(sig, ')')
	if end < 0 {
		return ""
	}
	return strings.TrimSuffix(sig[end+1:], ";")
}
