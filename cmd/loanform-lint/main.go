package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-loanform/pkg/form"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint OpenAPI documents for unsupported loan form UI extensions.\nWith no paths the embedded loans document is checked.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	ctx := context.Background()
	failed := false

	paths := flag.Args()
	if len(paths) == 0 {
		failed = report(ctx, "embedded", form.DefaultDocument())
	}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		if report(ctx, path, raw) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func report(ctx context.Context, name string, data []byte) bool {
	violations, err := form.Lint(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint %s: %v\n", name, err)
		os.Exit(1)
	}
	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, v)
	}
	return len(violations) > 0
}
