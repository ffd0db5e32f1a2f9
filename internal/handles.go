package internal

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

static void* open_library(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_GLOBAL);
}

// dlsym may legitimately return NULL, so clear dlerror first and report
// failure through it.
static void* lookup_symbol(void* handle, const char* name, char** err) {
	dlerror();
	void* sym = dlsym(handle, name);
	*err = dlerror();
	return sym;
}
*/
import "C"
import (
	"unsafe"
)

// LibraryHandle wraps a handle returned by dlopen
type LibraryHandle struct {
	handle unsafe.Pointer
	path   string
}

// OpenLibrary loads the shared library at path with global symbol binding
func OpenLibrary(path string) (*LibraryHandle, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	h := C.open_library(cPath)
	if h == nil {
		return nil, lastError(OpOpen, path)
	}
	return &LibraryHandle{handle: h, path: path}, nil
}

// Path returns the path the library was opened from
func (l *LibraryHandle) Path() string {
	return l.path
}

// Symbol resolves an exported symbol by name
func (l *LibraryHandle) Symbol(name string) (unsafe.Pointer, error) {
	if l.handle == nil {
		return nil, &Error{Op: OpSymbol, Name: name, Message: "library is closed"}
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var cErr *C.char
	sym := C.lookup_symbol(l.handle, cName, &cErr)
	if cErr != nil {
		return nil, &Error{Op: OpSymbol, Name: name, Message: C.GoString(cErr)}
	}
	if sym == nil {
		return nil, &Error{Op: OpSymbol, Name: name, Message: "symbol resolved to NULL"}
	}
	return sym, nil
}

// Free releases the library handle
func (l *LibraryHandle) Free() error {
	if l.handle == nil {
		return nil
	}
	rc := C.dlclose(l.handle)
	l.handle = nil
	if rc != 0 {
		return lastError(OpClose, l.path)
	}
	return nil
}
