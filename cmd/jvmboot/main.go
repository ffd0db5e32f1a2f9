package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/code-disaster/jni-go/launcher"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCommand(os.Args[2:])
	case "describe":
		describeCommand(os.Args[2:])
	case "slots":
		slotsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run         Start a JVM and call the application entry point\n")
	fmt.Fprintf(os.Stderr, "  describe    Show a launch config and the VM options it produces\n")
	fmt.Fprintf(os.Stderr, "  slots       List the JNI table slots this binding calls\n")
	fmt.Fprintf(os.Stderr, "  help        Show this help message\n")
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for command-specific help\n", os.Args[0])
}

// stringList collects a repeated flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, " ")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func configureLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a TOML launch config")
	jvmPath := fs.String("jvm", "", "Path to libjvm (overrides config)")
	classpath := fs.String("classpath", "", "Application archive path or URL (overrides config)")
	mainClass := fs.String("main", "", "Main class, e.g. com.example.Main (overrides config)")
	verbosity := fs.Int("v", 0, "Log verbosity (0 errors only, 4 debug)")
	var vmArgs stringList
	fs.Var(&vmArgs, "J", "VM option, may be repeated (e.g. -J -Xmx512m)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s run [-config <file>] [options] [-- program args]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Start a JVM in this process and call the entry point\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s run -config app.toml -- --port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s run -jvm /opt/jdk/lib/server/libjvm.so -classpath app.jar -main com.example.Main\n", os.Args[0])
	}

	fs.Parse(args)
	configureLogging(*verbosity)

	config, err := buildConfig(*configPath, *jvmPath, *classpath, *mainClass, vmArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	if err := launcher.New(config, nil).Run(fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig loads the config file if given and applies flag overrides.
func buildConfig(path, jvmPath, classpath, mainClass string, vmArgs []string) (*launcher.Config, error) {
	config := &launcher.Config{}
	if path != "" {
		loaded, err := launcher.Load(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if jvmPath != "" {
		config.JVM = jvmPath
	}
	if classpath != "" {
		config.Classpath = classpath
	}
	if mainClass != "" {
		config.MainClass = mainClass
	}
	config.VMArgs = append(config.VMArgs, vmArgs...)
	if err := config.Check(); err != nil {
		return nil, err
	}
	return config, nil
}
