package launcher

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/code-disaster/jni-go/bootstrap"
	"github.com/code-disaster/jni-go/jvm"
)

var log = commonlog.GetLogger("launcher")

// ErrUncaughtException is returned when the entry point leaves an
// exception pending.
var ErrUncaughtException = errors.New("launcher: uncaught exception in entry point")

// Runtime creates a VM from init args. *jvm.Library satisfies it.
type Runtime interface {
	CreateVM(args *jvm.InitArgs) (*jvm.VM, *jvm.Env, error)
}

// OpenFunc loads the runtime at path.
type OpenFunc func(path string) (Runtime, error)

// OpenLibrary is the default OpenFunc. The library stays loaded for the
// life of the process.
func OpenLibrary(path string) (Runtime, error) {
	lib, err := jvm.Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Launcher runs one application per process.
type Launcher struct {
	config *Config
	open   OpenFunc
}

// New returns a launcher for a validated config. A nil open uses
// OpenLibrary.
func New(config *Config, open OpenFunc) *Launcher {
	if open == nil {
		open = OpenLibrary
	}
	return &Launcher{config: config, open: open}
}

// Run creates the VM, bootstraps the configured class and calls its entry
// point with the configured arguments followed by args. It returns after
// the VM has been destroyed, which waits for all non-daemon Java threads.
//
// The calling goroutine is locked to its OS thread for the whole run since
// the JNI environment belongs to the thread that created the VM.
func (l *Launcher) Run(args []string) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := l.config
	archive, err := c.ArchiveURL()
	if err != nil {
		return err
	}

	rt, err := l.open(c.LibraryPath())
	if err != nil {
		return fmt.Errorf("loading JVM: %w", err)
	}

	initArgs, err := jvm.BuildInitArgs(c.JNIVersion(), c.IgnoreUnrecognized, c.VMArgs)
	if err != nil {
		return fmt.Errorf("VM options: %w", err)
	}
	vm, env, err := rt.CreateVM(initArgs)
	initArgs.Close()
	if err != nil {
		return fmt.Errorf("creating JVM: %w", err)
	}
	defer func() {
		status := vm.Destroy()
		log.Infof("JVM destroyed: %s", status)
		if err == nil {
			err = status.Err()
		}
	}()

	loader := bootstrap.New(env, bootstrap.WithEntryPoint(c.Entry.Name, c.Entry.Descriptor))
	entry, err := loader.LoadStaticMethod(archive, c.MainClass)
	if err != nil {
		return fmt.Errorf("loading %s from %s: %w", c.MainClass, archive, err)
	}

	if c.Entry.Descriptor == NoArgsDescriptor {
		log.Infof("calling %s.%s", c.MainClass, c.Entry.Name)
		env.CallStaticVoidMethod(entry.Class, entry.Method)
	} else {
		argv, err := StringArray(env, append(append([]string(nil), c.Args...), args...))
		if err != nil {
			return err
		}
		log.Infof("calling %s.%s with %d arguments", c.MainClass, c.Entry.Name, len(c.Args)+len(args))
		env.CallStaticVoidMethod(entry.Class, entry.Method, jvm.ObjectValue(argv))
	}

	if !jvm.IsNull(env.ExceptionOccurred()) {
		env.ExceptionDescribe()
		env.ExceptionClear()
		return ErrUncaughtException
	}
	return nil
}

// Run loads the config at path and runs it.
func Run(path string, args []string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	return New(c, nil).Run(args)
}

// StringArray builds a java.lang.String[] holding values.
func StringArray(env *jvm.Env, values []string) (jvm.ObjectArray, error) {
	stringClass := env.FindClass("java/lang/String")
	if err := pending(env, "FindClass(java/lang/String)", jvm.IsNull(stringClass)); err != nil {
		return jvm.Null, err
	}
	array := env.NewObjectArray(int32(len(values)), stringClass, jvm.Null)
	if err := pending(env, "NewObjectArray", jvm.IsNull(array)); err != nil {
		return jvm.Null, err
	}
	for i, v := range values {
		s := env.NewStringUTF(v)
		if err := pending(env, "NewStringUTF", jvm.IsNull(s)); err != nil {
			return jvm.Null, err
		}
		env.SetObjectArrayElement(array, int32(i), jvm.AsObject(s))
		if err := pending(env, "SetObjectArrayElement", false); err != nil {
			return jvm.Null, err
		}
	}
	return array, nil
}

func pending(env *jvm.Env, call string, null bool) error {
	exception := !jvm.IsNull(env.ExceptionOccurred())
	if exception {
		env.ExceptionDescribe()
		env.ExceptionClear()
	}
	if exception || null {
		return fmt.Errorf("building program arguments: %s failed", call)
	}
	return nil
}

// ArchiveURL converts a filesystem path into an absolute file URL.
// Directories get a trailing slash so URLClassLoader treats them as class
// directories rather than archives.
func ArchiveURL(path string) (string, error) {
	if hasScheme(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

// hasScheme reports whether s already is a URL. Single-letter schemes are
// Windows drive letters.
func hasScheme(s string) bool {
	u, err := url.Parse(s)
	return err == nil && len(u.Scheme) > 1
}
