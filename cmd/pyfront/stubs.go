package main

import (
	"flag"
	"fmt"
	"os"

	"pycheck/frontend-go/pkg/stubs"
)

func runStubs(args []string) int {
	flags := flag.NewFlagSet("stubs", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	manifestPath := flags.String("manifest", "stubs.yaml", "stub manifest path")
	cacheDir := flags.String("cache", "", "cache directory for stub checkouts")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *cacheDir == "" {
		fmt.Fprintln(os.Stderr, "pyfront: stubs requires -cache")
		return 1
	}

	manifest, err := stubs.LoadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fetcher := stubs.NewFetcher(*cacheDir)
	checkout, err := fetcher.Fetch(manifest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	manifest.Checksum = checkout.Checksum
	manifest.Fetched = ""
	if err := stubs.WriteManifest(manifest, *manifestPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "%s %s -> %s\n", manifest.Source.Name, checkout.Version, checkout.Dir)
	return 0
}
