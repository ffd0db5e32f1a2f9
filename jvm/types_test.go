package jvm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-disaster/jni-go/jvm"
)

func TestIsNull(t *testing.T) {
	require.True(t, jvm.IsNull(jvm.Class(jvm.Null)))
	require.True(t, jvm.IsNull(jvm.MethodID(0)))
	require.False(t, jvm.IsNull(jvm.Object(0x10)))
	require.Equal(t, jvm.Object(0x20), jvm.AsObject(jvm.String(0x20)))
}

func TestValues(t *testing.T) {
	require.Equal(t, jvm.Value(1), jvm.BoolValue(true))
	require.Equal(t, jvm.Value(0), jvm.BoolValue(false))
	require.Equal(t, jvm.Value(0xffffffff), jvm.IntValue(-1))
	require.Equal(t, jvm.Value(math.MaxUint64), jvm.LongValue(-1))
	require.Equal(t, jvm.Value(math.Float64bits(1.5)), jvm.DoubleValue(1.5))
	require.Equal(t, jvm.Value(math.Float32bits(2.5)), jvm.FloatValue(2.5))
	require.Equal(t, jvm.Value(0x30), jvm.ObjectValue(jvm.ObjectArray(0x30)))
}

func TestVersion(t *testing.T) {
	for _, v := range []jvm.Version{jvm.Version1_1, jvm.Version1_2, jvm.Version1_4, jvm.Version1_6, jvm.Version1_8} {
		parsed, err := jvm.ParseVersion(v.String())
		require.NoError(t, err)
		require.Equal(t, v, parsed)
	}
	require.Equal(t, "1.8", jvm.Version1_8.String())
	_, err := jvm.ParseVersion("9")
	require.Error(t, err)
}

func TestStatus(t *testing.T) {
	require.NoError(t, jvm.StatusOK.Err())
	require.EqualError(t, jvm.StatusVersion.Err(), "jni: JNI_EVERSION")
	require.Equal(t, "JNI_EINVAL", jvm.StatusInvalid.String())
	require.Equal(t, "JNI status -42", jvm.Status(-42).String())
}

func TestErrorKinds(t *testing.T) {
	err := &jvm.Error{Kind: jvm.CreationFailed, Code: int(jvm.StatusNoMemory), Path: "/opt/jdk/libjvm.so"}
	require.True(t, errors.Is(err, jvm.CreationFailed))
	require.False(t, errors.Is(err, jvm.SymbolNotFound))
	require.Equal(t, "VM creation failed: JNI_ENOMEM: /opt/jdk/libjvm.so", err.Error())

	wrapped := &jvm.Error{Kind: jvm.OutOfRange, Code: 7, Message: "capacity is 2"}
	require.Equal(t, "index out of range: 7: capacity is 2", wrapped.Error())
	require.ErrorIs(t, errors.Join(errors.New("ctx"), wrapped), jvm.OutOfRange)
}
