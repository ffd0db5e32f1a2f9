package launcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-disaster/jni-go/jvm"
)

const minimal = `
jvm        = "libjvm.so"
classpath  = "/tmp/app.jar"
main-class = "com.example.Main"
`

func TestParseDefaults(t *testing.T) {
	c, err := Parse(minimal)
	require.NoError(t, err)
	require.Equal(t, "1.8", c.Version)
	require.Equal(t, jvm.Version1_8, c.JNIVersion())
	require.Equal(t, "main", c.Entry.Name)
	require.Equal(t, "([Ljava/lang/String;)V", c.Entry.Descriptor)
	require.Equal(t, "libjvm.so", c.LibraryPath())
	require.Empty(t, c.VMArgs)
}

func TestParseFull(t *testing.T) {
	c, err := Parse(`
jvm                 = "/opt/jdk/lib/server/libjvm.so"
classpath           = "file:///srv/app.jar"
main-class          = "com.example.Server"
vm-args             = ["-Xmx1g", "-Dapp.mode=prod"]
ignore-unrecognized = true
version             = "1.6"
args                = ["--port", "8080"]

[entry]
name       = "start"
descriptor = "()V"
`)
	require.NoError(t, err)
	require.Equal(t, []string{"-Xmx1g", "-Dapp.mode=prod"}, c.VMArgs)
	require.True(t, c.IgnoreUnrecognized)
	require.Equal(t, jvm.Version1_6, c.JNIVersion())
	require.Equal(t, Entry{Name: "start", Descriptor: "()V"}, c.Entry)
	require.Equal(t, []string{"--port", "8080"}, c.Args)

	u, err := c.ArchiveURL()
	require.NoError(t, err)
	require.Equal(t, "file:///srv/app.jar", u)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "unknown key",
			text: minimal + `main_class = "x"` + "\n",
			want: []string{"unknown keys: main_class"},
		},
		{
			name: "missing fields",
			text: `version = "1.8"`,
			want: []string{"jvm: library path is required", "classpath: archive is required", "main-class: class name is required"},
		},
		{
			name: "bad version",
			text: minimal + `version = "11"` + "\n",
			want: []string{`unsupported JNI version "11"`},
		},
		{
			name: "bad descriptor",
			text: minimal + "[entry]\ndescriptor = \"(I)V\"\n",
			want: []string{`descriptor "(I)V"`},
		},
		{
			name: "syntax",
			text: `jvm = `,
			want: []string{"parse error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			for _, w := range tt.want {
				require.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
jvm        = "jdk/lib/server/libjvm.so"
classpath  = "build/app.jar"
main-class = "com.example.Main"
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, dir, c.Dir)
	require.Equal(t, filepath.Join(dir, "jdk/lib/server/libjvm.so"), c.LibraryPath())

	u, err := c.ArchiveURL()
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.ToSlash(filepath.Join(dir, "build/app.jar")), u)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "cannot read"))
}

func TestArchiveURL(t *testing.T) {
	dir := t.TempDir()

	u, err := ArchiveURL(filepath.Join(dir, "app.jar"))
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.ToSlash(dir)+"/app.jar", u)

	u, err = ArchiveURL(dir)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(u, "/"), u)

	u, err = ArchiveURL(filepath.Join(dir, "with space.jar"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(u, "/with%20space.jar"), u)

	u, err = ArchiveURL("https://repo.example.com/app.jar")
	require.NoError(t, err)
	require.Equal(t, "https://repo.example.com/app.jar", u)
}
