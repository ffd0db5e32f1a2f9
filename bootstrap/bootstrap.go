// Package bootstrap loads an application class from an archive that is not
// on the JVM's startup classpath. It builds a URLClassLoader over the
// archive, installs it as the current thread's context class loader and
// resolves the class's static entry point through it.
//
// Every JNI call is followed by an exception check. A pending exception or a
// Null result aborts the sequence; no further call is made after an abort.
package bootstrap

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/code-disaster/jni-go/jvm"
)

var log = commonlog.GetLogger("jvm.bootstrap")

// Env is the part of the JNI environment the bootstrap sequence calls.
// *jvm.Env satisfies it.
type Env interface {
	FindClass(name string) jvm.Class
	GetMethodID(clazz jvm.Class, name, sig string) jvm.MethodID
	GetStaticMethodID(clazz jvm.Class, name, sig string) jvm.MethodID
	NewObject(clazz jvm.Class, ctor jvm.MethodID, args ...jvm.Value) jvm.Object
	CallObjectMethod(obj jvm.Object, method jvm.MethodID, args ...jvm.Value) jvm.Object
	CallVoidMethod(obj jvm.Object, method jvm.MethodID, args ...jvm.Value)
	CallStaticObjectMethod(clazz jvm.Class, method jvm.MethodID, args ...jvm.Value) jvm.Object
	NewStringUTF(s string) jvm.String
	NewObjectArray(length int32, elem jvm.Class, init jvm.Object) jvm.ObjectArray
	ExceptionOccurred() jvm.Throwable
	ExceptionDescribe()
	ExceptionClear()
}

var _ Env = (*jvm.Env)(nil)

// Step identifies a stage of the bootstrap sequence.
type Step int

const (
	StepURL Step = iota + 1
	StepURLArray
	StepContextLoader
	StepNewLoader
	StepInstallLoader
	StepLoadClass
	StepEntryPoint
)

func (s Step) String() string {
	switch s {
	case StepURL:
		return "archive URL"
	case StepURLArray:
		return "URL array"
	case StepContextLoader:
		return "context class loader"
	case StepNewLoader:
		return "URLClassLoader"
	case StepInstallLoader:
		return "install class loader"
	case StepLoadClass:
		return "load class"
	case StepEntryPoint:
		return "entry point"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// EntryPoint is a loaded class and one of its static methods. Either both
// handles are set or both are Null.
type EntryPoint struct {
	Class  jvm.Class
	Method jvm.MethodID
}

// Valid reports whether the entry point was resolved.
func (e EntryPoint) Valid() bool {
	return !jvm.IsNull(e.Class) && !jvm.IsNull(e.Method)
}

// Default entry point: public static void main(String[] args).
const (
	MainName       = "main"
	MainDescriptor = "([Ljava/lang/String;)V"
)

// Option configures a Loader.
type Option func(*Loader)

// WithEntryPoint resolves name/descriptor instead of main.
func WithEntryPoint(name, descriptor string) Option {
	return func(l *Loader) {
		l.method = name
		l.descriptor = descriptor
	}
}

// Loader runs the bootstrap sequence on one environment. It must be used on
// the thread the environment belongs to.
type Loader struct {
	env        Env
	method     string
	descriptor string

	contextLoader jvm.Object
}

// New returns a loader bound to env.
func New(env Env, opts ...Option) *Loader {
	l := &Loader{env: env, method: MainName, descriptor: MainDescriptor}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ContextLoader returns the class loader this Loader installed as the
// thread's context class loader, or Null if it never got that far. The
// installed loader stays in place even when a later step aborts.
func (l *Loader) ContextLoader() jvm.Object {
	return l.contextLoader
}

// LoadStaticMethod loads className (binary name, e.g. "com.example.Main")
// from the archive at archiveURL and resolves its static entry point. On
// failure it returns the zero EntryPoint and an *AbortError.
func (l *Loader) LoadStaticMethod(archiveURL, className string) (EntryPoint, error) {
	s := &sequence{env: l.env}
	env := l.env

	// new URL(archiveURL)
	s.step = StepURL
	urlClass := run(s, "FindClass(java/net/URL)", func() jvm.Class {
		return env.FindClass("java/net/URL")
	})
	urlCtor := run(s, "GetMethodID(URL.<init>)", func() jvm.MethodID {
		return env.GetMethodID(urlClass, "<init>", "(Ljava/lang/String;)V")
	})
	urlString := run(s, "NewStringUTF(url)", func() jvm.String {
		return env.NewStringUTF(archiveURL)
	})
	url := run(s, "NewObject(URL)", func() jvm.Object {
		return env.NewObject(urlClass, urlCtor, jvm.ObjectValue(urlString))
	})

	// new URL[] { url }
	s.step = StepURLArray
	urls := run(s, "NewObjectArray(URL[1])", func() jvm.ObjectArray {
		return env.NewObjectArray(1, urlClass, url)
	})

	// Thread.currentThread().getContextClassLoader()
	s.step = StepContextLoader
	threadClass := run(s, "FindClass(java/lang/Thread)", func() jvm.Class {
		return env.FindClass("java/lang/Thread")
	})
	currentThread := run(s, "GetStaticMethodID(Thread.currentThread)", func() jvm.MethodID {
		return env.GetStaticMethodID(threadClass, "currentThread", "()Ljava/lang/Thread;")
	})
	thread := run(s, "CallStaticObjectMethod(Thread.currentThread)", func() jvm.Object {
		return env.CallStaticObjectMethod(threadClass, currentThread)
	})
	getLoader := run(s, "GetMethodID(Thread.getContextClassLoader)", func() jvm.MethodID {
		return env.GetMethodID(threadClass, "getContextClassLoader", "()Ljava/lang/ClassLoader;")
	})
	parent := run(s, "CallObjectMethod(Thread.getContextClassLoader)", func() jvm.Object {
		return env.CallObjectMethod(thread, getLoader)
	})

	// URLClassLoader.newInstance(urls, parent)
	s.step = StepNewLoader
	loaderClass := run(s, "FindClass(java/net/URLClassLoader)", func() jvm.Class {
		return env.FindClass("java/net/URLClassLoader")
	})
	newInstance := run(s, "GetStaticMethodID(URLClassLoader.newInstance)", func() jvm.MethodID {
		return env.GetStaticMethodID(loaderClass, "newInstance",
			"([Ljava/net/URL;Ljava/lang/ClassLoader;)Ljava/net/URLClassLoader;")
	})
	loader := run(s, "CallStaticObjectMethod(URLClassLoader.newInstance)", func() jvm.Object {
		return env.CallStaticObjectMethod(loaderClass, newInstance, jvm.ObjectValue(urls), jvm.ObjectValue(parent))
	})

	// thread.setContextClassLoader(loader)
	s.step = StepInstallLoader
	setLoader := run(s, "GetMethodID(Thread.setContextClassLoader)", func() jvm.MethodID {
		return env.GetMethodID(threadClass, "setContextClassLoader", "(Ljava/lang/ClassLoader;)V")
	})
	runVoid(s, "CallVoidMethod(Thread.setContextClassLoader)", func() {
		env.CallVoidMethod(thread, setLoader, jvm.ObjectValue(loader))
	})
	if s.err == nil {
		l.contextLoader = loader
	}

	// loader.loadClass(className)
	s.step = StepLoadClass
	loadClass := run(s, "GetMethodID(URLClassLoader.loadClass)", func() jvm.MethodID {
		return env.GetMethodID(loaderClass, "loadClass", "(Ljava/lang/String;)Ljava/lang/Class;")
	})
	name := run(s, "NewStringUTF(className)", func() jvm.String {
		return env.NewStringUTF(className)
	})
	class := run(s, "CallObjectMethod(URLClassLoader.loadClass)", func() jvm.Object {
		return env.CallObjectMethod(loader, loadClass, jvm.ObjectValue(name))
	})

	s.step = StepEntryPoint
	entry := run(s, "GetStaticMethodID("+l.method+")", func() jvm.MethodID {
		return env.GetStaticMethodID(jvm.Class(class), l.method, l.descriptor)
	})

	if s.err != nil {
		return EntryPoint{}, s.err
	}
	log.Debugf("resolved %s.%s%s from %s", className, l.method, l.descriptor, archiveURL)
	return EntryPoint{Class: jvm.Class(class), Method: entry}, nil
}

// LoadStaticMethod runs the bootstrap sequence with a fresh Loader and the
// default main entry point.
func LoadStaticMethod(env Env, archiveURL, className string) (EntryPoint, error) {
	return New(env).LoadStaticMethod(archiveURL, className)
}
