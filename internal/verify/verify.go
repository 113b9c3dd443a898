// Package verify cross-checks an output directory: every accession in the
// success ledger must have at least one record-log line. It is read-only.
package verify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/pkg/records"
)

// Report describes the state of an output directory.
type Report struct {
	Completed int // accessions in the success ledger
	Records   int // valid record-log lines

	// Missing lists ledger accessions with no record. The append order
	// (record first, ledger second) means these should never occur; any
	// hit points at manual edits or file corruption.
	Missing []string

	// Orphans lists record accessions absent from the ledger. Benign: a
	// run interrupted between the record append and the ledger append
	// leaves one, and the accession is refetched on resume.
	Orphans []string

	// Duplicates maps accessions with more than one record to their count.
	Duplicates map[string]int

	// Failures is the number of failure-ledger entries.
	Failures int

	// SkippedLines counts record-log lines that did not parse.
	SkippedLines int
}

// OK reports whether the directory passes verification. Orphans and
// duplicates are tolerated; missing records are not.
func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

// Check verifies the output directory at dir. A missing record log is
// treated as empty so a failed-only run still verifies.
func Check(dir string) (*Report, error) {
	completed, err := ledger.ReadCompleted(filepath.Join(dir, ledger.CompletedName))
	if err != nil {
		return nil, err
	}
	failures, err := ledger.CountFailed(filepath.Join(dir, ledger.FailedName))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Completed:  len(completed),
		Duplicates: make(map[string]int),
		Failures:   failures,
	}

	counts := make(map[string]int)
	f, err := os.Open(filepath.Join(dir, records.DefaultFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("verify: open record log: %w", err)
	}
	if err == nil {
		defer f.Close()
		sc := records.NewScanner(f)
		for sc.Scan() {
			counts[sc.Record().Accession]++
			report.Records++
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("verify: read record log: %w", err)
		}
		report.SkippedLines = sc.Skipped()
	}

	for acc := range completed {
		if counts[acc] == 0 {
			report.Missing = append(report.Missing, acc)
		}
	}
	for acc, n := range counts {
		if !completed[acc] {
			report.Orphans = append(report.Orphans, acc)
		}
		if n > 1 {
			report.Duplicates[acc] = n
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Orphans)

	return report, nil
}
