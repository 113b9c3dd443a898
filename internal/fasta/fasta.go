// Package fasta extracts sequences from a download record log into FASTA.
//
// Each record's data payload is expected to be a JSON array of sequence
// entries; the first entry's sequence and description are used. Records
// without a usable sequence (raw fallback, empty payload, missing sequence
// field) are skipped, as are repeat accessions: the first occurrence wins.
package fasta

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vbadelita/harvest/pkg/records"
)

// DefaultWrap is the sequence line width used when Options.Wrap is zero.
const DefaultWrap = 60

// Options configures extraction.
type Options struct {
	// Wrap is the maximum sequence line width. Zero means DefaultWrap.
	Wrap int
}

// Stats summarizes an extraction pass.
type Stats struct {
	Processed int // sequences written
	Skipped   int // records without a usable sequence, duplicates, bad lines
}

// entry is the part of the API payload the extractor needs.
type entry struct {
	Sequence    string `json:"sequence"`
	Description string `json:"description"`
}

// Extract streams the record log from r and writes FASTA to w.
func Extract(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	wrap := opts.Wrap
	if wrap <= 0 {
		wrap = DefaultWrap
	}

	var stats Stats
	seen := make(map[string]bool)
	out := bufio.NewWriter(w)

	sc := records.NewScanner(r)
	for sc.Scan() {
		rec := sc.Record()
		if seen[rec.Accession] {
			stats.Skipped++
			continue
		}

		seq, desc, ok := firstSequence(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		seen[rec.Accession] = true

		header := ">" + rec.Accession
		if desc != "" {
			header += " " + desc
		}
		if _, err := fmt.Fprintln(out, header); err != nil {
			return stats, fmt.Errorf("fasta: write output: %w", err)
		}
		for start := 0; start < len(seq); start += wrap {
			end := start + wrap
			if end > len(seq) {
				end = len(seq)
			}
			if _, err := fmt.Fprintln(out, seq[start:end]); err != nil {
				return stats, fmt.Errorf("fasta: write output: %w", err)
			}
		}
		stats.Processed++
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("fasta: read record log: %w", err)
	}
	stats.Skipped += sc.Skipped()

	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("fasta: write output: %w", err)
	}
	return stats, nil
}

// firstSequence pulls the first entry's sequence and description out of a
// record's data payload.
func firstSequence(rec records.Record) (seq, desc string, ok bool) {
	if len(rec.Data) == 0 {
		return "", "", false
	}
	var entries []entry
	if err := json.Unmarshal(rec.Data, &entries); err != nil || len(entries) == 0 {
		return "", "", false
	}
	seq = strings.TrimSpace(entries[0].Sequence)
	if seq == "" {
		return "", "", false
	}
	return seq, strings.TrimSpace(entries[0].Description), true
}
