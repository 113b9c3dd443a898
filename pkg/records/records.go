package records

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// DefaultFileName is the conventional record log name inside an output directory.
const DefaultFileName = "raw_data.jsonl"

// maxLineSize bounds a single record line. Genome payloads can run to many
// megabytes but a line beyond this is treated as corrupt.
const maxLineSize = 64 * 1024 * 1024

// Record is one entry in the record log. Exactly one of Data or Raw is set:
// Data holds a structured payload, Raw holds a response body that was not
// valid JSON.
type Record struct {
	Accession string          `json:"accession"`
	Data      json.RawMessage `json:"data,omitempty"`
	Raw       string          `json:"raw,omitempty"`
}

// Writer appends records to a log file. Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	f  *os.File
}

// NewWriter opens the log at path for appending, creating it if absent.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("records: open log: %w", err)
	}
	return &Writer{f: f}, nil
}

// Append marshals rec to a single line and durably appends it.
// The line is written with one write call and synced before returning,
// so an interrupt leaves either the whole line or nothing.
func (w *Writer) Append(rec Record) error {
	if rec.Accession == "" {
		return errors.New("records: accession is required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("records: marshal record: %w", err)
	}
	line := append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return errors.New("records: writer is closed")
	}
	if _, err := w.f.Write(line); err != nil {
		return fmt.Errorf("records: append record: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("records: sync log: %w", err)
	}
	return nil
}

// Close closes the underlying file. Append returns an error afterwards.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// Scanner streams records from a log. It tolerates blank lines, duplicate
// accessions, the raw fallback shape, and arbitrary line order.
type Scanner struct {
	s       *bufio.Scanner
	rec     Record
	skipped int
}

// NewScanner creates a scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{s: s}
}

// Scan advances to the next valid record. It returns false when the input
// is exhausted or a read error occurs; check Err afterwards.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		line := strings.TrimSpace(s.s.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.Accession == "" {
			s.skipped++
			continue
		}
		s.rec = rec
		return true
	}
	return false
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Skipped returns the number of non-blank lines that did not parse as records.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Err returns the first read error encountered by Scan.
func (s *Scanner) Err() error {
	return s.s.Err()
}
