package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vbadelita/harvest/internal/fasta"
)

// runFasta extracts sequences from a record log into FASTA.
func runFasta(args []string) int {
	fs := flag.NewFlagSet("fasta", flag.ExitOnError)

	input := fs.String("input", "", "Record log file (required)")
	output := fs.String("output", "", "Output FASTA file (default stdout)")
	wrap := fs.Int("wrap", 0, "Sequence line width (default 60)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: harvest fasta [options]

Extract sequences from a download record log into FASTA. Each record
contributes one entry headed by its accession and description; raw-fallback
records, records without a sequence, and repeat accessions are skipped.

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
		fmt.Fprintf(os.Stderr, "Error opening record log: %v\n", err)
		return ExitInputError
	}
	defer in.Close()

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

	stats, err := fasta.Extract(in, out, fasta.Options{Wrap: *wrap})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fmt.Fprintf(os.Stderr, "[harvest] Extracted %d sequences (%d skipped)\n",
		stats.Processed, stats.Skipped)
	return ExitSuccess
}
