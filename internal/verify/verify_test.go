package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/pkg/records"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCheckCleanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ledger.CompletedName, "A1\nA2\n")
	writeFile(t, dir, records.DefaultFileName,
		`{"accession":"A1","data":[1]}`+"\n"+`{"accession":"A2","raw":"x"}`+"\n")

	report, err := Check(dir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.OK() {
		t.Errorf("expected clean report, got %+v", report)
	}
	if report.Completed != 2 || report.Records != 2 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.Orphans) != 0 || len(report.Duplicates) != 0 {
		t.Errorf("unexpected orphans/duplicates: %+v", report)
	}
}

func TestCheckMissingRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ledger.CompletedName, "A1\nA2\n")
	writeFile(t, dir, records.DefaultFileName, `{"accession":"A1","data":[1]}`+"\n")

	report, err := Check(dir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.OK() {
		t.Error("expected verification failure")
	}
	if len(report.Missing) != 1 || report.Missing[0] != "A2" {
		t.Errorf("unexpected missing list: %v", report.Missing)
	}
}

func TestCheckOrphansAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ledger.CompletedName, "A1\n")
	writeFile(t, dir, records.DefaultFileName,
		`{"accession":"A1","data":[1]}`+"\n"+
			`{"accession":"A1","data":[1]}`+"\n"+
			`{"accession":"A9","data":[1]}`+"\n")

	report, err := Check(dir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.OK() {
		t.Errorf("orphans and duplicates should not fail verification: %+v", report)
	}
	if len(report.Orphans) != 1 || report.Orphans[0] != "A9" {
		t.Errorf("unexpected orphans: %v", report.Orphans)
	}
	if report.Duplicates["A1"] != 2 {
		t.Errorf("unexpected duplicates: %v", report.Duplicates)
	}
}

func TestCheckMissingRecordLogTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ledger.FailedName, "A1\thttp: unexpected status: 404 Not Found\n")

	report, err := Check(dir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.OK() || report.Failures != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestCheckCountsUnparseableLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, records.DefaultFileName, "not json\n"+`{"accession":"A1","data":[1]}`+"\n")

	report, err := Check(dir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.SkippedLines != 1 || report.Records != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}
