package internal

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func systemLibrary(t *testing.T) string {
	switch runtime.GOOS {
	case "linux":
		return "libc.so.6"
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	default:
		t.Skipf("no known system library on %s", runtime.GOOS)
		return ""
	}
}

func TestOpenLibraryMissing(t *testing.T) {
	_, err := OpenLibrary("/nonexistent/libjvm.so")
	require.Error(t, err)

	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	require.Equal(t, OpOpen, lerr.Op)
	require.Equal(t, "/nonexistent/libjvm.so", lerr.Name)
	require.NotEmpty(t, lerr.Message)
}

func TestLibrarySymbols(t *testing.T) {
	lib, err := OpenLibrary(systemLibrary(t))
	require.NoError(t, err)
	defer lib.Free()

	sym, err := lib.Symbol("strlen")
	require.NoError(t, err)
	require.NotNil(t, sym)

	_, err = lib.Symbol("JNI_CreateJavaVM")
	require.Error(t, err)

	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	require.Equal(t, OpSymbol, lerr.Op)
	require.Equal(t, "JNI_CreateJavaVM", lerr.Name)
}

func TestLibraryFreeIsIdempotent(t *testing.T) {
	lib, err := OpenLibrary(systemLibrary(t))
	require.NoError(t, err)

	require.NoError(t, lib.Free())
	require.NoError(t, lib.Free())

	_, err = lib.Symbol("strlen")
	require.Error(t, err)
}

func TestLoaderOpString(t *testing.T) {
	require.Equal(t, "dlopen", OpOpen.String())
	require.Equal(t, "dlsym", OpSymbol.String())
	require.Equal(t, "dlclose", OpClose.String())
}
