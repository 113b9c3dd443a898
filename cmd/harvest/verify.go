package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vbadelita/harvest/internal/verify"
)

// runVerify cross-checks an output directory: ledgers against record log.
func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)

	dir := fs.String("dir", "", "Output directory to verify (required)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: harvest verify [options]

Check that every accession in downloaded.txt has at least one line in
raw_data.jsonl, and report orphan records, duplicates, and failure count.
Read-only.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	report, err := verify.Check(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fmt.Printf("Completed accessions: %d\n", report.Completed)
	fmt.Printf("Record log entries:   %d\n", report.Records)
	fmt.Printf("Failure entries:      %d\n", report.Failures)
	if report.SkippedLines > 0 {
		fmt.Printf("Unparseable lines:    %d\n", report.SkippedLines)
	}
	if len(report.Orphans) > 0 {
		fmt.Printf("Orphan records (no ledger entry, refetched on resume): %d\n", len(report.Orphans))
		for _, acc := range report.Orphans {
			fmt.Printf("  %s\n", acc)
		}
	}
	if len(report.Duplicates) > 0 {
		fmt.Printf("Duplicate records: %d\n", len(report.Duplicates))
		for acc, n := range report.Duplicates {
			fmt.Printf("  %s: %d\n", acc, n)
		}
	}

	if !report.OK() {
		fmt.Printf("MISSING records for %d ledger accessions:\n", len(report.Missing))
		for _, acc := range report.Missing {
			fmt.Printf("  %s\n", acc)
		}
		fmt.Println("Verification FAILED")
		return ExitVerifyFailed
	}

	fmt.Println("Verification OK")
	return ExitSuccess
}
