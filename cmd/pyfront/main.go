package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "pyfront 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "dump":
		return runDump(args[1:])
	case "stubs":
		return runStubs(args[1:])
	default:
		return runDump(args)
	}
}
