// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slackline/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var inputPath, outputPath, packageName string
	var check bool

	flagSet := pflag.NewFlagSet("slackline-methodgen", pflag.ContinueOnError)
	flagSet.StringVar(&inputPath, "in", "methods.jsonc", "JSONC method list")
	flagSet.StringVar(&outputPath, "out", "methods_gen.go", "generated Go file")
	flagSet.StringVar(&packageName, "package", "api", "package name for the generated file")
	flagSet.BoolVar(&check, "check", false, "fail if the output file is stale instead of writing it")
	flagSet.BoolP("help", "h", false, "show help")

	if len(args) > 0 && args[0] == "--version" {
		version.Print("slackline-methodgen")
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	categories, err := parseMethods(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}
	source, err := generate(categories, packageName, filepath.Base(inputPath))
	if err != nil {
		return err
	}

	if check {
		existing, err := os.ReadFile(outputPath)
		if err != nil {
			return err
		}
		if !bytes.Equal(existing, source) {
			return fmt.Errorf("%s is stale; run go generate", outputPath)
		}
		return nil
	}
	return os.WriteFile(outputPath, source, 0644)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `slackline-methodgen renders the platform method table.

Reads a JSONC list of dotted method names and writes a Go file with
one typed group per category, a Methods struct binding them to a
Caller, and Methods.All enumerating every entry.

Usage:
  slackline-methodgen [flags]

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
