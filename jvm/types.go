// Package jvm binds the JNI invocation API: it loads a JVM shared library,
// creates a VM from an option buffer and exposes the handful of environment
// and invocation table slots needed to bootstrap an application.
package jvm

import (
	"fmt"
	"math"
)

// Handles are opaque references owned by the JVM. The binding never frees
// them; their lifetime follows the JVM's local/global reference rules.
type (
	// Object is a reference to any Java object.
	Object uintptr
	// Class is a reference to a java.lang.Class.
	Class uintptr
	// String is a reference to a java.lang.String.
	String uintptr
	// ObjectArray is a reference to an Object[].
	ObjectArray uintptr
	// Throwable is a reference to a java.lang.Throwable.
	Throwable uintptr
	// MethodID identifies a resolved method.
	MethodID uintptr
	// FieldID identifies a resolved field.
	FieldID uintptr
)

// Null is the sentinel denoting "no handle" for every handle type.
const Null = 0

// Handle is satisfied by every handle type.
type Handle interface {
	~uintptr
}

// IsNull reports whether h is the Null sentinel.
func IsNull[H Handle](h H) bool {
	return h == Null
}

// AsObject views a class, string, array or throwable reference as a plain
// object reference.
func AsObject[H Class | String | ObjectArray | Throwable | Object](h H) Object {
	return Object(h)
}

// Value is the 8-byte jvalue union passed in argument arrays. Primitive
// members occupy the low bytes, which is where a little-endian union puts
// them.
type Value uint64

// ObjectValue wraps an object reference.
func ObjectValue[H Class | String | ObjectArray | Throwable | Object](h H) Value {
	return Value(h)
}

func BoolValue(b bool) Value {
	if b {
		return 1
	}
	return 0
}

func IntValue(i int32) Value {
	return Value(uint32(i))
}

func LongValue(l int64) Value {
	return Value(uint64(l))
}

func FloatValue(f float32) Value {
	return Value(math.Float32bits(f))
}

func DoubleValue(d float64) Value {
	return Value(math.Float64bits(d))
}

// Version is a JNI interface version as returned by GetVersion and passed
// in JavaVMInitArgs.
type Version int32

const (
	Version1_1 Version = 0x00010001
	Version1_2 Version = 0x00010002
	Version1_4 Version = 0x00010004
	Version1_6 Version = 0x00010006
	Version1_8 Version = 0x00010008
)

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", int32(v)>>16, int32(v)&0xffff)
}

// ParseVersion accepts the dotted form produced by Version.String.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "1.1":
		return Version1_1, nil
	case "1.2":
		return Version1_2, nil
	case "1.4":
		return Version1_4, nil
	case "1.6":
		return Version1_6, nil
	case "1.8":
		return Version1_8, nil
	}
	return 0, fmt.Errorf("unsupported JNI version %q", s)
}

// Status is a JNI return code.
type Status int32

const (
	StatusOK       Status = 0
	StatusErr      Status = -1
	StatusDetached Status = -2
	StatusVersion  Status = -3
	StatusNoMemory Status = -4
	StatusExists   Status = -5
	StatusInvalid  Status = -6
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "JNI_OK"
	case StatusErr:
		return "JNI_ERR"
	case StatusDetached:
		return "JNI_EDETACHED"
	case StatusVersion:
		return "JNI_EVERSION"
	case StatusNoMemory:
		return "JNI_ENOMEM"
	case StatusExists:
		return "JNI_EEXIST"
	case StatusInvalid:
		return "JNI_EINVAL"
	default:
		return fmt.Sprintf("JNI status %d", int32(s))
	}
}

// Err returns nil for StatusOK and an error naming the status otherwise.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return fmt.Errorf("jni: %s", s)
}
