// Package launcher starts a Java application inside the current process:
// it loads the JVM library, creates a VM, bootstraps the application
// archive through a URLClassLoader and calls the entry point.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/code-disaster/jni-go/bootstrap"
	"github.com/code-disaster/jni-go/jvm"
)

// Config is a launch description, usually read from a TOML file:
//
//	jvm        = "/usr/lib/jvm/java-17/lib/server/libjvm.so"
//	classpath  = "build/app.jar"
//	main-class = "com.example.Main"
//	vm-args    = ["-Xmx512m"]
//	args       = ["--port", "8080"]
//
//	[entry]
//	name       = "main"
//	descriptor = "([Ljava/lang/String;)V"
type Config struct {
	JVM                string   `toml:"jvm"`
	Classpath          string   `toml:"classpath"`
	MainClass          string   `toml:"main-class"`
	VMArgs             []string `toml:"vm-args"`
	IgnoreUnrecognized bool     `toml:"ignore-unrecognized"`
	Version            string   `toml:"version"`
	Entry              Entry    `toml:"entry"`
	Args               []string `toml:"args"`

	// Dir is the directory relative paths are resolved against (set at load
	// time).
	Dir string `toml:"-"`
}

// NoArgsDescriptor is the one entry descriptor besides main's: a static
// void method without parameters. Program arguments are dropped.
const NoArgsDescriptor = "()V"

// Entry names the static method called after bootstrap.
type Entry struct {
	Name       string `toml:"name"`
	Descriptor string `toml:"descriptor"`
}

// Load reads and validates a launch config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a launch config. Unknown keys are an error.
func Parse(text string) (*Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check fills in defaults and validates. Configs built in code go through
// it before New.
func (c *Config) Check() error {
	c.setDefaults()
	return c.Validate()
}

func (c *Config) setDefaults() {
	if c.Version == "" {
		c.Version = jvm.Version1_8.String()
	}
	if c.Entry.Name == "" {
		c.Entry.Name = bootstrap.MainName
	}
	if c.Entry.Descriptor == "" {
		c.Entry.Descriptor = bootstrap.MainDescriptor
	}
}

// Validate checks that the required fields are present and the version is
// one the JNI invocation API knows.
func (c *Config) Validate() error {
	var errs []error
	if c.JVM == "" {
		errs = append(errs, errors.New("jvm: library path is required"))
	}
	if c.Classpath == "" {
		errs = append(errs, errors.New("classpath: archive is required"))
	}
	if c.MainClass == "" {
		errs = append(errs, errors.New("main-class: class name is required"))
	}
	if _, err := jvm.ParseVersion(c.Version); err != nil {
		errs = append(errs, fmt.Errorf("version: %w", err))
	}
	switch c.Entry.Descriptor {
	case bootstrap.MainDescriptor, NoArgsDescriptor:
	default:
		errs = append(errs, fmt.Errorf("entry: descriptor %q must be %s or %s",
			c.Entry.Descriptor, bootstrap.MainDescriptor, NoArgsDescriptor))
	}
	return errors.Join(errs...)
}

// JNIVersion returns the requested interface version. Call it on a
// validated config.
func (c *Config) JNIVersion() jvm.Version {
	v, _ := jvm.ParseVersion(c.Version)
	return v
}

// LibraryPath returns the JVM library path, resolved against Dir when
// relative. A bare file name is left to the dynamic loader's search path.
func (c *Config) LibraryPath() string {
	if !strings.ContainsRune(c.JVM, filepath.Separator) && !strings.ContainsRune(c.JVM, '/') {
		return c.JVM
	}
	return c.resolve(c.JVM)
}

// ArchiveURL returns the classpath archive as a URL.
func (c *Config) ArchiveURL() (string, error) {
	if hasScheme(c.Classpath) {
		return c.Classpath, nil
	}
	return ArchiveURL(c.resolve(c.Classpath))
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
