package jvm

/*
#cgo CFLAGS: -I${SRCDIR}
#include "jni_abi.h"

enum {
	slot_GetVersion              = JNIGO_ENV_SLOT(GetVersion),
	slot_FindClass               = JNIGO_ENV_SLOT(FindClass),
	slot_ExceptionOccurred       = JNIGO_ENV_SLOT(ExceptionOccurred),
	slot_ExceptionDescribe       = JNIGO_ENV_SLOT(ExceptionDescribe),
	slot_ExceptionClear          = JNIGO_ENV_SLOT(ExceptionClear),
	slot_NewObjectA              = JNIGO_ENV_SLOT(NewObjectA),
	slot_GetMethodID             = JNIGO_ENV_SLOT(GetMethodID),
	slot_CallObjectMethodA       = JNIGO_ENV_SLOT(CallObjectMethodA),
	slot_CallVoidMethodA         = JNIGO_ENV_SLOT(CallVoidMethodA),
	slot_GetStaticMethodID       = JNIGO_ENV_SLOT(GetStaticMethodID),
	slot_CallStaticObjectMethodA = JNIGO_ENV_SLOT(CallStaticObjectMethodA),
	slot_CallStaticVoidMethodA   = JNIGO_ENV_SLOT(CallStaticVoidMethodA),
	slot_NewStringUTF            = JNIGO_ENV_SLOT(NewStringUTF),
	slot_NewObjectArray          = JNIGO_ENV_SLOT(NewObjectArray),
	slot_SetObjectArrayElement   = JNIGO_ENV_SLOT(SetObjectArrayElement),

	slot_DestroyJavaVM       = JNIGO_VM_SLOT(DestroyJavaVM),
	slot_AttachCurrentThread = JNIGO_VM_SLOT(AttachCurrentThread),
};
*/
import "C"

// Slot names a call-table entry and its position in the table.
type Slot struct {
	Name  string
	Index int
}

// EnvTableSize and VMTableSize are the slot counts of the JNI 1.6
// environment and invocation tables.
const (
	EnvTableSize = int(C.JNIGO_ENV_SLOTS)
	VMTableSize  = int(C.JNIGO_VM_SLOTS)
)

// EnvSlots lists the environment table slots used by Env, in table order.
func EnvSlots() []Slot {
	return []Slot{
		{"GetVersion", int(C.slot_GetVersion)},
		{"FindClass", int(C.slot_FindClass)},
		{"ExceptionOccurred", int(C.slot_ExceptionOccurred)},
		{"ExceptionDescribe", int(C.slot_ExceptionDescribe)},
		{"ExceptionClear", int(C.slot_ExceptionClear)},
		{"NewObjectA", int(C.slot_NewObjectA)},
		{"GetMethodID", int(C.slot_GetMethodID)},
		{"CallObjectMethodA", int(C.slot_CallObjectMethodA)},
		{"CallVoidMethodA", int(C.slot_CallVoidMethodA)},
		{"GetStaticMethodID", int(C.slot_GetStaticMethodID)},
		{"CallStaticObjectMethodA", int(C.slot_CallStaticObjectMethodA)},
		{"CallStaticVoidMethodA", int(C.slot_CallStaticVoidMethodA)},
		{"NewStringUTF", int(C.slot_NewStringUTF)},
		{"NewObjectArray", int(C.slot_NewObjectArray)},
		{"SetObjectArrayElement", int(C.slot_SetObjectArrayElement)},
	}
}

// VMSlots lists the invocation table slots used by VM, in table order.
func VMSlots() []Slot {
	return []Slot{
		{"DestroyJavaVM", int(C.slot_DestroyJavaVM)},
		{"AttachCurrentThread", int(C.slot_AttachCurrentThread)},
	}
}
