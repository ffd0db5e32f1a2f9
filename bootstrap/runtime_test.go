package bootstrap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-disaster/jni-go/bootstrap"
	"github.com/code-disaster/jni-go/jvm"
	"github.com/code-disaster/jni-go/jvm/jvmtest"
)

func newFake(t *testing.T) *jvmtest.Fake {
	f := jvmtest.New()
	t.Cleanup(f.Close)
	return f
}

func TestRuntimeLoadsMainClass(t *testing.T) {
	f := newFake(t)
	l := bootstrap.New(f.Env())

	entry, err := l.LoadStaticMethod("file:///tmp/app.jar", "com.example.Main")
	require.NoError(t, err)
	require.True(t, entry.Valid())
	require.Equal(t, "com/example/Main", f.ClassName(entry.Class))

	require.Equal(t, l.ContextLoader(), f.ContextLoader())
	require.NotEqual(t, f.SystemLoader(), f.ContextLoader())
	require.Equal(t, "java/net/URLClassLoader(file:///tmp/app.jar)", f.Describe(f.ContextLoader()))

	require.Equal(t, []jvmtest.Call{
		{Op: "FindClass", Detail: "java/net/URL"},
		{Op: "GetMethodID", Detail: "java/net/URL.<init>(Ljava/lang/String;)V"},
		{Op: "NewStringUTF", Detail: "file:///tmp/app.jar"},
		{Op: "NewObjectA", Detail: "java/net/URL(file:///tmp/app.jar)"},
		{Op: "NewObjectArray", Detail: "java/net/URL[1]"},
		{Op: "FindClass", Detail: "java/lang/Thread"},
		{Op: "GetStaticMethodID", Detail: "java/lang/Thread.currentThread()Ljava/lang/Thread;"},
		{Op: "CallStaticObjectMethodA", Detail: "java/lang/Thread.currentThread"},
		{Op: "GetMethodID", Detail: "java/lang/Thread.getContextClassLoader()Ljava/lang/ClassLoader;"},
		{Op: "CallObjectMethodA", Detail: "java/lang/Thread.getContextClassLoader"},
		{Op: "FindClass", Detail: "java/net/URLClassLoader"},
		{Op: "GetStaticMethodID", Detail: "java/net/URLClassLoader.newInstance([Ljava/net/URL;Ljava/lang/ClassLoader;)Ljava/net/URLClassLoader;"},
		{Op: "CallStaticObjectMethodA", Detail: "java/net/URLClassLoader.newInstance"},
		{Op: "GetMethodID", Detail: "java/lang/Thread.setContextClassLoader(Ljava/lang/ClassLoader;)V"},
		{Op: "CallVoidMethodA", Detail: "java/lang/Thread.setContextClassLoader"},
		{Op: "GetMethodID", Detail: "java/net/URLClassLoader.loadClass(Ljava/lang/String;)Ljava/lang/Class;"},
		{Op: "NewStringUTF", Detail: "com.example.Main"},
		{Op: "CallObjectMethodA", Detail: "java/net/URLClassLoader.loadClass"},
		{Op: "GetStaticMethodID", Detail: "com/example/Main.main([Ljava/lang/String;)V"},
	}, f.Ops())
	require.Equal(t, len(f.Ops()), f.Count("ExceptionOccurred"))
}

func TestRuntimeMissingURLClassLeavesContextLoader(t *testing.T) {
	f := newFake(t)
	f.Missing("java/net/URL")
	l := bootstrap.New(f.Env())

	entry, err := l.LoadStaticMethod("file:///tmp/app.jar", "com.example.Main")
	require.ErrorIs(t, err, jvm.BootstrapAborted)
	require.False(t, entry.Valid())

	var abort *bootstrap.AbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, bootstrap.StepURL, abort.Step)
	require.True(t, abort.Exception)

	require.Len(t, f.Ops(), 1)
	require.Equal(t, f.SystemLoader(), f.ContextLoader())
	require.True(t, jvm.IsNull(l.ContextLoader()))
	require.True(t, jvm.IsNull(f.Pending()))
	require.Equal(t, 1, f.Count("ExceptionDescribe"))
	require.Equal(t, 1, f.Count("ExceptionClear"))
}

func TestRuntimeMissingClassKeepsInstalledLoader(t *testing.T) {
	f := newFake(t)
	f.Missing("com.example.Missing")
	l := bootstrap.New(f.Env())

	entry, err := l.LoadStaticMethod("file:///tmp/app.jar", "com.example.Missing")
	require.ErrorIs(t, err, jvm.BootstrapAborted)
	require.False(t, entry.Valid())

	var abort *bootstrap.AbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, bootstrap.StepLoadClass, abort.Step)

	require.NotEqual(t, f.SystemLoader(), f.ContextLoader())
	require.Equal(t, l.ContextLoader(), f.ContextLoader())
	require.Equal(t, 2, f.Count("GetStaticMethodID"), "entry point lookup must not run")
}

func TestRuntimeNullWithoutException(t *testing.T) {
	f := newFake(t)
	f.FailOn("CallStaticObjectMethodA", "java/net/URLClassLoader.newInstance")

	_, err := bootstrap.LoadStaticMethod(f.Env(), "file:///tmp/app.jar", "com.example.Main")
	var abort *bootstrap.AbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, bootstrap.StepNewLoader, abort.Step)
	require.False(t, abort.Exception)
	require.Zero(t, f.Count("ExceptionDescribe"))
	require.Equal(t, f.SystemLoader(), f.ContextLoader())
}

func TestRuntimeSetContextLoaderThrows(t *testing.T) {
	f := newFake(t)
	f.ThrowOn("CallVoidMethodA", "java/lang/Thread.setContextClassLoader", "java/lang/SecurityException")
	l := bootstrap.New(f.Env())

	_, err := l.LoadStaticMethod("file:///tmp/app.jar", "com.example.Main")
	var abort *bootstrap.AbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, bootstrap.StepInstallLoader, abort.Step)
	require.True(t, abort.Exception)
	require.True(t, jvm.IsNull(l.ContextLoader()))
	require.Equal(t, 1, f.Count("NewStringUTF"))
}

func TestRuntimeMissingEntryPoint(t *testing.T) {
	f := newFake(t)
	f.FailOn("GetStaticMethodID", "com/example/Main.main([Ljava/lang/String;)V")

	entry, err := bootstrap.LoadStaticMethod(f.Env(), "file:///tmp/app.jar", "com.example.Main")
	require.False(t, entry.Valid())
	var abort *bootstrap.AbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, bootstrap.StepEntryPoint, abort.Step)
}
