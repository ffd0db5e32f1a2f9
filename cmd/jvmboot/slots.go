package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/code-disaster/jni-go/jvm"
)

func slotsCommand(args []string) {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s slots\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the JNI table slots this binding calls\n")
	}
	fs.Parse(args)

	fmt.Printf("JNINativeInterface: %d slots, JNIInvokeInterface: %d slots\n\n", jvm.EnvTableSize, jvm.VMTableSize)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Table", "Function", "Index")
	for _, s := range jvm.EnvSlots() {
		table.Append("JNIEnv", s.Name, fmt.Sprint(s.Index))
	}
	for _, s := range jvm.VMSlots() {
		table.Append("JavaVM", s.Name, fmt.Sprint(s.Index))
	}
	table.Render()
}
