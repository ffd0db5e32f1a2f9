package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/code-disaster/jni-go/jvm"
	"github.com/code-disaster/jni-go/launcher"
)

func describeCommand(args []string) {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a TOML launch config (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s describe -config <file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show a launch config and the VM options it produces\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	fs.Parse(args)

	if *configPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -config flag is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := runDescribe(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDescribe(path string) error {
	config, err := launcher.Load(path)
	if err != nil {
		return err
	}
	archive, err := config.ArchiveURL()
	if err != nil {
		return err
	}

	fmt.Printf("Launch config: %s\n\n", path)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Setting", "Value")
	table.Append("JVM library", config.LibraryPath())
	table.Append("Archive URL", archive)
	table.Append("Main class", config.MainClass)
	table.Append("Entry point", config.Entry.Name+config.Entry.Descriptor)
	table.Append("JNI version", config.JNIVersion().String())
	table.Append("Ignore unrecognized", fmt.Sprintf("%t", config.IgnoreUnrecognized))
	table.Append("Program args", strings.Join(config.Args, " "))
	table.Render()

	// Build the exact buffer the VM would receive.
	initArgs, err := jvm.BuildInitArgs(config.JNIVersion(), config.IgnoreUnrecognized, config.VMArgs)
	if err != nil {
		return fmt.Errorf("VM options: %w", err)
	}
	defer initArgs.Close()
	view, err := initArgs.Finish()
	if err != nil {
		return fmt.Errorf("VM options: %w", err)
	}

	fmt.Printf("\nVM options (%d):\n", view.Len())
	if view.Len() == 0 {
		return nil
	}
	options := tablewriter.NewWriter(os.Stdout)
	options.Header("#", "Option", "Bytes")
	for i := 0; i < view.Len(); i++ {
		options.Append(fmt.Sprint(i), view.Option(i), fmt.Sprint(len(view.OptionBytes(i))))
	}
	options.Render()
	return nil
}
