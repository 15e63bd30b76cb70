package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"pycheck/frontend-go/pkg/parser"
)

// fileSink prints one diagnostic per reported syntax error, prefixed with the
// file it came from.
type fileSink struct {
	path  string
	count int
}

func (s *fileSink) Report(line int, message string) {
	s.count++
	fmt.Fprintf(os.Stderr, "%s:%d: %s\n", s.path, line, message)
}

func runDump(args []string) int {
	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	format := flags.String("format", "json", "output format (json)")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *format != "json" {
		fmt.Fprintf(os.Stderr, "pyfront: unknown format %q\n", *format)
		return 1
	}
	paths := flags.Args()
	if len(paths) == 0 {
		printUsage()
		return 1
	}

	p, err := parser.NewModuleParser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer p.Close()

	sawSyntaxError := false
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		sink := &fileSink{path: path}
		file, err := p.ParseModule(source, path, sink)
		if err != nil {
			var convertErr *parser.ConvertError
			if errors.As(err, &convertErr) {
				fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, convertErr.Line, convertErr.Message)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
			return 1
		}
		if sink.count > 0 {
			sawSyntaxError = true
			continue
		}
		if err := enc.Encode(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if sawSyntaxError {
		return 2
	}
	return 0
}
