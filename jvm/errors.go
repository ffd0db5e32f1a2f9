package jvm

import (
	"fmt"
)

// ErrorKind classifies failures of the embedding layer
type ErrorKind int

const (
	// LibraryNotFound: the JVM shared library could not be opened.
	LibraryNotFound ErrorKind = iota + 1
	// SymbolNotFound: JNI_CreateJavaVM is missing from the library.
	SymbolNotFound
	// CreationFailed: JNI_CreateJavaVM returned a non-zero status.
	CreationFailed
	// BootstrapAborted: a classpath bootstrap step returned Null or left an
	// exception pending.
	BootstrapAborted
	// OutOfRange: an init-args slot index beyond the declared capacity.
	OutOfRange
)

func (k ErrorKind) Error() string {
	switch k {
	case LibraryNotFound:
		return "library not found"
	case SymbolNotFound:
		return "symbol not found"
	case CreationFailed:
		return "VM creation failed"
	case BootstrapAborted:
		return "bootstrap aborted"
	case OutOfRange:
		return "index out of range"
	default:
		return fmt.Sprintf("jvm error: %d", int(k))
	}
}

// Error is an embedding failure with its kind and context
type Error struct {
	Kind ErrorKind
	// Code is the JNI status for CreationFailed and the offending index for
	// OutOfRange.
	Code    int
	Path    string
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch e.Kind {
	case CreationFailed:
		msg = fmt.Sprintf("%s: %s", msg, Status(e.Code))
	case OutOfRange:
		msg = fmt.Sprintf("%s: %d", msg, e.Code)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

// Is lets errors.Is match an *Error against its ErrorKind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}
