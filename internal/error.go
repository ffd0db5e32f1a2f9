package internal

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
)

// LoaderOp names the dynamic loader call that failed
type LoaderOp int

const (
	OpOpen LoaderOp = iota
	OpSymbol
	OpClose
)

func (o LoaderOp) String() string {
	switch o {
	case OpOpen:
		return "dlopen"
	case OpSymbol:
		return "dlsym"
	case OpClose:
		return "dlclose"
	default:
		return fmt.Sprintf("loader op %d", int(o))
	}
}

// Error represents a dynamic loader failure with the dlerror message
type Error struct {
	Op      LoaderOp
	Name    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s(%q): %s", e.Op, e.Name, e.Message)
	}
	return fmt.Sprintf("%s(%q) failed", e.Op, e.Name)
}

// lastError captures and clears the pending dlerror text
func lastError(op LoaderOp, name string) error {
	msg := ""
	if cerr := C.dlerror(); cerr != nil {
		msg = C.GoString(cerr)
	}
	return &Error{Op: op, Name: name, Message: msg}
}
