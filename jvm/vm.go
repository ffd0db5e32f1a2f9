package jvm

/*
#cgo CFLAGS: -I${SRCDIR}
#include "jni_abi.h"

static jint vm_destroy(JavaVM* vm) {
	return vm->functions->DestroyJavaVM(vm);
}

static jint vm_attach_current_thread(JavaVM* vm, JNIEnv** env) {
	return vm->functions->AttachCurrentThread(vm, (void**)env, NULL);
}
*/
import "C"
import (
	"unsafe"
)

// VM is a JavaVM: the process-wide invocation table.
type VM struct {
	vm *C.JavaVM
}

// NewVM wraps a JavaVM pointer obtained outside this package.
func NewVM(ptr unsafe.Pointer) *VM {
	if ptr == nil {
		return nil
	}
	return &VM{vm: (*C.JavaVM)(ptr)}
}

// Pointer returns the underlying JavaVM pointer.
func (v *VM) Pointer() unsafe.Pointer {
	return unsafe.Pointer(v.vm)
}

// Destroy calls DestroyJavaVM. It blocks until every non-daemon Java thread
// has finished.
func (v *VM) Destroy() Status {
	return Status(C.vm_destroy(v.vm))
}

// AttachCurrentThread attaches the calling OS thread and returns its
// environment. The caller must keep the goroutine locked to the thread
// (runtime.LockOSThread) for as long as the Env is used.
func (v *VM) AttachCurrentThread() (*Env, Status) {
	var env *C.JNIEnv
	status := Status(C.vm_attach_current_thread(v.vm, &env))
	if status != StatusOK || env == nil {
		return nil, status
	}
	return &Env{env: env}, status
}
