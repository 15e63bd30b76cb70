package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pyfront dump [-format json] <file.py|file.pyi> ...")
	fmt.Fprintln(os.Stderr, "  pyfront stubs -manifest stubs.yaml -cache <dir>")
	fmt.Fprintln(os.Stderr, "  pyfront version")
}
