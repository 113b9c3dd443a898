// Package ledger tracks which accessions have reached a terminal state.
//
// Two append-only files live in the output directory: downloaded.txt holds
// one accession per line for every successful fetch and is the sole source
// of truth for resume; failed_accessions.txt logs terminal failures for
// operators and is never consulted when computing remaining work.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File names inside an output directory.
const (
	CompletedName = "downloaded.txt"
	FailedName    = "failed_accessions.txt"
)

// Ledger provides durable, write-serialized appends to the success and
// failure files. Safe for concurrent use.
type Ledger struct {
	completedPath string
	failedPath    string

	cmu       sync.Mutex
	completed *os.File

	fmu    sync.Mutex
	failed *os.File
}

// Open creates the output directory if needed and opens both ledger files
// for appending, creating them if absent.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ledger: create output dir: %w", err)
	}

	l := &Ledger{
		completedPath: filepath.Join(dir, CompletedName),
		failedPath:    filepath.Join(dir, FailedName),
	}

	var err error
	l.completed, err = os.OpenFile(l.completedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", CompletedName, err)
	}
	l.failed, err = os.OpenFile(l.failedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.completed.Close()
		return nil, fmt.Errorf("ledger: open %s: %w", FailedName, err)
	}
	return l, nil
}

// Completed returns the set of accessions recorded as successfully
// downloaded. A missing file yields an empty set.
func (l *Ledger) Completed() (map[string]bool, error) {
	return ReadCompleted(l.completedPath)
}

// MarkCompleted durably appends one success line. The line is written with
// a single write call and synced, so an interrupt leaves either the whole
// line or nothing.
func (l *Ledger) MarkCompleted(accession string) error {
	l.cmu.Lock()
	defer l.cmu.Unlock()
	return appendLine(l.completed, accession)
}

// MarkFailed durably appends one failure line of the form
// "accession<TAB>classification: message".
func (l *Ledger) MarkFailed(accession, classification, message string) error {
	l.fmu.Lock()
	defer l.fmu.Unlock()
	return appendLine(l.failed, accession+"\t"+classification+": "+sanitize(message))
}

// Counts re-reads both files and returns the number of completed accessions
// and logged failures. Used for the end-of-run summary, so the totals span
// every run against this directory.
func (l *Ledger) Counts() (completed, failed int, err error) {
	set, err := ReadCompleted(l.completedPath)
	if err != nil {
		return 0, 0, err
	}
	failed, err = CountFailed(l.failedPath)
	if err != nil {
		return 0, 0, err
	}
	return len(set), failed, nil
}

// Close closes both ledger files.
func (l *Ledger) Close() error {
	l.cmu.Lock()
	cerr := l.completed.Close()
	l.cmu.Unlock()

	l.fmu.Lock()
	ferr := l.failed.Close()
	l.fmu.Unlock()

	if cerr != nil {
		return cerr
	}
	return ferr
}

func appendLine(f *os.File, line string) error {
	if _, err := f.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("ledger: sync: %w", err)
	}
	return nil
}

// sanitize flattens a message onto a single line so it cannot break the
// one-line-per-entry format.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}

// ReadCompleted reads a success ledger into a set. A missing file is not an
// error. A trailing line without a newline was torn by a crash mid-append
// and is ignored, so the affected accession is fetched again.
func ReadCompleted(path string) (map[string]bool, error) {
	set := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("ledger: read %s: %w", filepath.Base(path), err)
	}
	for _, line := range completeLines(data) {
		if line != "" {
			set[line] = true
		}
	}
	return set, nil
}

// CountFailed counts non-blank lines in a failure ledger. A missing file
// counts as zero.
func CountFailed(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("ledger: read %s: %w", filepath.Base(path), err)
	}
	n := 0
	for _, line := range completeLines(data) {
		if line != "" {
			n++
		}
	}
	return n, nil
}

// completeLines splits data into newline-terminated lines, trimmed of
// surrounding whitespace. An unterminated final fragment is dropped.
func completeLines(data []byte) []string {
	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimSpace(string(data[:i])))
		data = data[i+1:]
	}
	return lines
}
