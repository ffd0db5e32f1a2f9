package jvm

/*
#cgo CFLAGS: -I${SRCDIR}
#include "jni_abi.h"

static jint create_java_vm(void* fn, JavaVM** vm, JNIEnv** env, void* args) {
	return ((JNI_CreateJavaVM_func)fn)(vm, (void**)env, args);
}
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tliron/commonlog"

	"github.com/code-disaster/jni-go/internal"
)

// CreateSymbol is the export resolved by CreateVM.
const CreateSymbol = "JNI_CreateJavaVM"

var log = commonlog.GetLogger("jvm")

// Library is an opened JVM shared library (libjvm.so, libjvm.dylib).
type Library struct {
	handle *internal.LibraryHandle
}

// Open loads the JVM shared library at path.
func Open(path string) (*Library, error) {
	h, err := internal.OpenLibrary(path)
	if err != nil {
		return nil, &Error{Kind: LibraryNotFound, Path: path, Message: loaderMessage(err)}
	}
	log.Debugf("opened %s", path)
	return &Library{handle: h}, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.handle.Path()
}

// CreateVM resolves JNI_CreateJavaVM and calls it with a finished InitArgs.
// On success both returned handles are non-nil. The caller keeps ownership of
// args and may Close it as soon as CreateVM returns.
func (l *Library) CreateVM(args *InitArgs) (*VM, *Env, error) {
	sym, err := l.handle.Symbol(CreateSymbol)
	if err != nil {
		return nil, nil, &Error{Kind: SymbolNotFound, Path: l.handle.Path(), Message: loaderMessage(err)}
	}
	vm, env, err := CreateVMWith(sym, args)
	if err != nil {
		var jerr *Error
		if errors.As(err, &jerr) && jerr.Path == "" {
			jerr.Path = l.handle.Path()
		}
		return nil, nil, err
	}
	return vm, env, nil
}

// CreateVMWith calls fn, which must have the JNI_CreateJavaVM signature.
// It serves hosts that link the JVM statically or resolve the export
// themselves.
func CreateVMWith(fn unsafe.Pointer, args *InitArgs) (*VM, *Env, error) {
	if fn == nil {
		return nil, nil, &Error{Kind: SymbolNotFound, Message: CreateSymbol + " is nil"}
	}
	view, err := args.Finish()
	if err != nil {
		return nil, nil, fmt.Errorf("preparing VM options: %w", err)
	}
	log.Infof("creating JVM %s with %d options", view.Version(), view.Len())
	for i, opt := range view.Options() {
		log.Debugf("VM option %d: %s", i, opt)
	}

	var vm *C.JavaVM
	var env *C.JNIEnv
	status := Status(C.create_java_vm(fn, &vm, &env, view.pointer()))
	if status != StatusOK {
		return nil, nil, &Error{Kind: CreationFailed, Code: int(status)}
	}
	if vm == nil || env == nil {
		return nil, nil, &Error{Kind: CreationFailed, Code: int(StatusErr), Message: "runtime returned a null handle"}
	}

	e := &Env{env: env}
	if !e.Implemented() {
		return nil, nil, &Error{Kind: CreationFailed, Code: int(StatusErr), Message: "environment table has empty slots"}
	}
	log.Infof("JVM created, JNI version %s", e.Version())
	return &VM{vm: vm}, e, nil
}

// Close unloads the library. The JVM does not support being unloaded while
// a VM created from it is alive.
func (l *Library) Close() error {
	return l.handle.Free()
}

func loaderMessage(err error) string {
	var lerr *internal.Error
	if errors.As(err, &lerr) {
		return lerr.Message
	}
	return err.Error()
}
