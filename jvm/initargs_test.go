package jvm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-disaster/jni-go/jvm"
)

func TestInitArgsRoundTrip(t *testing.T) {
	base := jvm.LiveAllocs()
	a := jvm.NewInitArgs(3)
	defer a.Close()

	require.NoError(t, a.Set(0, "-Xmx512m"))
	require.NoError(t, a.Set(1, "-Djava.class.path=/tmp/boot.jar"))
	require.NoError(t, a.Set(2, "-verbose:jni"))

	view, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, 3, view.Len())
	require.Equal(t, jvm.Version1_6, view.Version())
	require.False(t, view.IgnoreUnrecognized())
	require.Equal(t, []string{"-Xmx512m", "-Djava.class.path=/tmp/boot.jar", "-verbose:jni"}, view.Options())
	require.Equal(t, append([]byte("-Xmx512m"), 0), view.OptionBytes(0))
	require.Nil(t, view.OptionBytes(3))

	// option array, three strings, header
	require.Equal(t, base+5, jvm.LiveAllocs())
}

func TestInitArgsReplaceFreesPrevious(t *testing.T) {
	base := jvm.LiveAllocs()
	a := jvm.NewInitArgs(1)
	require.NoError(t, a.Set(0, "-Xss1m"))
	require.NoError(t, a.Set(0, "-Xss2m"))
	require.Equal(t, base+2, jvm.LiveAllocs())

	view, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, "-Xss2m", view.Option(0))

	a.Close()
	require.Equal(t, base, jvm.LiveAllocs())
}

func TestInitArgsOutOfRange(t *testing.T) {
	a := jvm.NewInitArgs(2)
	defer a.Close()
	require.NoError(t, a.Set(0, "-Xint"))
	require.NoError(t, a.Set(1, "-Xrs"))
	before := jvm.LiveAllocs()

	for _, index := range []int{-1, 2, 100} {
		err := a.Set(index, "-Xbatch")
		require.ErrorIs(t, err, jvm.OutOfRange)

		var jerr *jvm.Error
		require.True(t, errors.As(err, &jerr))
		require.Equal(t, index, jerr.Code)
	}
	require.Equal(t, before, jvm.LiveAllocs())

	view, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, []string{"-Xint", "-Xrs"}, view.Options())
}

func TestInitArgsRejects(t *testing.T) {
	t.Run("nul byte", func(t *testing.T) {
		a := jvm.NewInitArgs(1)
		defer a.Close()
		require.Error(t, a.Set(0, "-Dx=a\x00b"))
	})
	t.Run("unset slot", func(t *testing.T) {
		a := jvm.NewInitArgs(2)
		defer a.Close()
		require.NoError(t, a.Set(0, "-Xint"))
		_, err := a.Finish()
		require.Error(t, err)
	})
	t.Run("set after finish", func(t *testing.T) {
		a := jvm.NewInitArgs(1)
		defer a.Close()
		require.NoError(t, a.Set(0, "-Xint"))
		_, err := a.Finish()
		require.NoError(t, err)
		require.Error(t, a.Set(0, "-Xrs"))
	})
	t.Run("set after close", func(t *testing.T) {
		a := jvm.NewInitArgs(1)
		a.Close()
		require.Error(t, a.Set(0, "-Xint"))
		_, err := a.Finish()
		require.Error(t, err)
	})
	t.Run("negative capacity", func(t *testing.T) {
		require.Panics(t, func() { jvm.NewInitArgs(-1) })
	})
}

func TestInitArgsNoLeaks(t *testing.T) {
	base := jvm.LiveAllocs()
	for i := 0; i < 100; i++ {
		a, err := jvm.BuildInitArgs(jvm.Version1_8, i%2 == 0, []string{"-Xmx64m", "-Xss512k", "-ea"})
		require.NoError(t, err)
		a.Close()
		a.Close()
	}
	for i := 0; i < 100; i++ {
		a := jvm.NewInitArgs(2)
		require.NoError(t, a.Set(1, "-Xrs"))
		a.Close()
	}
	require.Equal(t, base, jvm.LiveAllocs())
}

func TestBuildInitArgs(t *testing.T) {
	a, err := jvm.BuildInitArgs(jvm.Version1_8, true, []string{"-Xcheck:jni"})
	require.NoError(t, err)
	defer a.Close()

	view, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, jvm.Version1_8, view.Version())
	require.True(t, view.IgnoreUnrecognized())
	require.Equal(t, []string{"-Xcheck:jni"}, view.Options())

	a.Close()
	require.Zero(t, view.Len())
	require.Empty(t, view.Options())

	_, err = jvm.BuildInitArgs(jvm.Version1_8, false, []string{"ok", "bad\x00"})
	require.Error(t, err)
}

func TestEmptyInitArgs(t *testing.T) {
	base := jvm.LiveAllocs()
	a := jvm.NewInitArgs(0)
	view, err := a.Finish()
	require.NoError(t, err)
	require.Zero(t, view.Len())
	a.Close()
	require.Equal(t, base, jvm.LiveAllocs())
}
