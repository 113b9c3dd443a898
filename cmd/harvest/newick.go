package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vbadelita/harvest/pkg/newick"
)

// runNewick converts a Nexus tree file to Newick.
func runNewick(args []string) int {
	fs := flag.NewFlagSet("newick", flag.ExitOnError)

	input := fs.String("input", "", "Nexus tree file (required)")
	output := fs.String("output", "", "Output Newick file (default stdout)")
	plain := fs.Bool("plain", false, "Topology only: omit branch lengths and comments")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: harvest newick [options]

Convert the first tree in a Nexus file to Newick. The TRANSLATE table is
applied when present and the [&R]/[&U] rooting comment is dropped.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	in, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
		return ExitInputError
	}
	defer in.Close()

	root, err := newick.ReadNexus(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitOutputError
		}
		defer f.Close()
		out = f
	}

	var options []newick.Option
	if *plain {
		options = append(options,
			newick.WithBranchLengths(false),
			newick.WithComments(false),
		)
	}
	if err := newick.Write(out, root, options...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing tree: %v\n", err)
		return ExitOutputError
	}
	return ExitSuccess
}
