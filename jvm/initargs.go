package jvm

/*
#cgo CFLAGS: -I${SRCDIR}
#include <stdlib.h>
#include <string.h>
#include "jni_abi.h"
*/
import "C"
import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unsafe"
)

// liveAllocs counts C allocations owned by InitArgs values that have not
// been released yet.
var liveAllocs atomic.Int64

var (
	errInitArgsClosed   = errors.New("jvm: init args already closed")
	errInitArgsFinished = errors.New("jvm: init args already finished")
)

// InitArgs builds the JavaVMInitArgs buffer passed to JNI_CreateJavaVM.
// Every option string and the option array live on the C heap and are owned
// by the builder until Close.
type InitArgs struct {
	// Version is the requested JNI version; defaults to Version1_6.
	Version Version
	// IgnoreUnrecognized makes the JVM skip unknown non-standard options.
	IgnoreUnrecognized bool

	options  *C.JavaVMOption
	capacity int
	args     *C.JavaVMInitArgs
	finished bool
	closed   bool
}

// NewInitArgs allocates a buffer of exactly capacity option slots, each
// initialized to (NULL, NULL).
func NewInitArgs(capacity int) *InitArgs {
	if capacity < 0 {
		panic(fmt.Sprintf("jvm: negative init args capacity %d", capacity))
	}
	a := &InitArgs{Version: Version1_6, capacity: capacity}
	if capacity > 0 {
		a.options = (*C.JavaVMOption)(C.calloc(C.size_t(capacity), C.sizeof_JavaVMOption))
		if a.options == nil {
			panic("jvm: out of memory allocating init args")
		}
		liveAllocs.Add(1)
	}
	return a
}

// BuildInitArgs fills a finished buffer with options in order.
func BuildInitArgs(version Version, ignoreUnrecognized bool, options []string) (*InitArgs, error) {
	a := NewInitArgs(len(options))
	a.Version = version
	a.IgnoreUnrecognized = ignoreUnrecognized
	for i, opt := range options {
		if err := a.Set(i, opt); err != nil {
			a.Close()
			return nil, err
		}
	}
	if _, err := a.Finish(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Cap returns the number of option slots.
func (a *InitArgs) Cap() int {
	return a.capacity
}

func (a *InitArgs) slots() []C.JavaVMOption {
	if a.options == nil {
		return nil
	}
	return unsafe.Slice(a.options, a.capacity)
}

// Set stores a NUL-terminated copy of text at index, releasing any copy the
// slot held before. An index outside [0, Cap()) returns an OutOfRange error
// and leaves the buffer untouched.
func (a *InitArgs) Set(index int, text string) error {
	if a.closed {
		return errInitArgsClosed
	}
	if a.finished {
		return errInitArgsFinished
	}
	if index < 0 || index >= a.capacity {
		return &Error{Kind: OutOfRange, Code: index, Message: fmt.Sprintf("capacity is %d", a.capacity)}
	}
	if strings.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("jvm: option %d contains a NUL byte", index)
	}

	cText := C.CString(text)
	liveAllocs.Add(1)

	slot := &a.slots()[index]
	if slot.optionString != nil {
		C.free(unsafe.Pointer(slot.optionString))
		liveAllocs.Add(-1)
	}
	slot.optionString = cText
	slot.extraInfo = nil
	return nil
}

// Finish fills the JavaVMInitArgs header and returns a read-only view of the
// completed buffer. Every slot must have been set. After Finish the options
// can no longer change.
func (a *InitArgs) Finish() (*InitArgsView, error) {
	if a.closed {
		return nil, errInitArgsClosed
	}
	for i, opt := range a.slots() {
		if opt.optionString == nil {
			return nil, fmt.Errorf("jvm: option %d of %d not set", i, a.capacity)
		}
	}
	if a.args == nil {
		a.args = (*C.JavaVMInitArgs)(C.calloc(1, C.sizeof_JavaVMInitArgs))
		if a.args == nil {
			panic("jvm: out of memory allocating init args")
		}
		liveAllocs.Add(1)
	}
	a.args.version = C.jint(a.Version)
	a.args.nOptions = C.jint(a.capacity)
	a.args.options = a.options
	a.args.ignoreUnrecognized = 0
	if a.IgnoreUnrecognized {
		a.args.ignoreUnrecognized = 1
	}
	a.finished = true
	return &InitArgsView{owner: a}, nil
}

// Close releases every option string, then the option array and header.
// It is safe to call more than once.
func (a *InitArgs) Close() {
	if a.closed {
		return
	}
	slots := a.slots()
	for i := range slots {
		slot := &slots[i]
		if slot.optionString != nil {
			C.free(unsafe.Pointer(slot.optionString))
			slot.optionString = nil
			liveAllocs.Add(-1)
		}
	}
	if a.options != nil {
		C.free(unsafe.Pointer(a.options))
		a.options = nil
		liveAllocs.Add(-1)
	}
	if a.args != nil {
		C.free(unsafe.Pointer(a.args))
		a.args = nil
		liveAllocs.Add(-1)
	}
	a.closed = true
}

// InitArgsView is a read-only view of a finished InitArgs. It is valid until
// the owning InitArgs is closed.
type InitArgsView struct {
	owner *InitArgs
}

func (v *InitArgsView) header() *C.JavaVMInitArgs {
	if v.owner.closed {
		return nil
	}
	return v.owner.args
}

// pointer returns the JavaVMInitArgs to hand to JNI_CreateJavaVM.
func (v *InitArgsView) pointer() unsafe.Pointer {
	return unsafe.Pointer(v.header())
}

// Len returns the advertised option count.
func (v *InitArgsView) Len() int {
	h := v.header()
	if h == nil {
		return 0
	}
	return int(h.nOptions)
}

func (v *InitArgsView) Version() Version {
	h := v.header()
	if h == nil {
		return 0
	}
	return Version(h.version)
}

func (v *InitArgsView) IgnoreUnrecognized() bool {
	h := v.header()
	return h != nil && h.ignoreUnrecognized != 0
}

// OptionBytes returns option i including its NUL terminator.
func (v *InitArgsView) OptionBytes(i int) []byte {
	h := v.header()
	if h == nil || i < 0 || i >= int(h.nOptions) {
		return nil
	}
	s := unsafe.Slice(h.options, int(h.nOptions))[i].optionString
	return C.GoBytes(unsafe.Pointer(s), C.int(C.strlen(s)+1))
}

// Option returns option i as a Go string.
func (v *InitArgsView) Option(i int) string {
	b := v.OptionBytes(i)
	if len(b) == 0 {
		return ""
	}
	return string(b[:len(b)-1])
}

// Options returns all options in slot order.
func (v *InitArgsView) Options() []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.Option(i)
	}
	return out
}
