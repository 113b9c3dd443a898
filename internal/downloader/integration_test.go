//go:build integration

package downloader_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "gocloud.dev/blob/s3blob"

	"github.com/vbadelita/harvest/internal/archive"
	"github.com/vbadelita/harvest/internal/downloader"
	"github.com/vbadelita/harvest/internal/fetch"
	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/internal/testutils"
	"github.com/vbadelita/harvest/internal/verify"
	"github.com/vbadelita/harvest/pkg/records"
)

func TestIntegrationFetchVerifyArchive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	payloads := map[string]string{
		"KX123456": `[{"sequence":"ACGTACGT","description":"segment 4"}]`,
		"KY654321": `[{"sequence":"TTTTAAAA","description":"segment 6"}]`,
		"KZ000001": `[{"sequence":"GGGGCCCC"}]`,
	}
	// KZ000001 fails its first request to exercise the retry.
	server := testutils.StartAccessionServer(t, payloads, map[string]bool{"KZ000001": true})
	defer server.Close()

	dir := t.TempDir()
	led, err := ledger.Open(dir)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	sink, err := records.NewWriter(filepath.Join(dir, records.DefaultFileName))
	if err != nil {
		t.Fatalf("open record log: %v", err)
	}

	client := fetch.NewClient(fetch.Options{
		URLTemplate:  server.URL + "/api/genome_sequence/?accession={accession}",
		Timeout:      10 * time.Second,
		RetryBackoff: 50 * time.Millisecond,
	})

	accessions := []string{"KX123456", "KY654321", "KZ000001", "MISSING1"}
	stats, err := downloader.Run(ctx, accessions, led, sink, client, downloader.Options{
		Concurrency: 4,
		BatchSize:   2,
		BatchPause:  10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Succeeded != 3 || stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close record log: %v", err)
	}
	if err := led.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	// The directory must verify clean.
	report, err := verify.Check(dir)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.OK() || report.Completed != 3 || report.Failures != 1 {
		t.Fatalf("unexpected verify report: %+v", report)
	}

	// Archive the run to minio and read it back.
	t.Log("Starting Minio container...")
	env := testutils.StartMinioContainer(t, ctx, "harvest-test")
	defer env.Close(ctx)

	bucket, err := env.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	pushed, err := archive.Push(ctx, bucket, dir, "runs/it")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if pushed.Files != 3 {
		t.Fatalf("expected 3 files pushed, got %d", pushed.Files)
	}

	data, err := bucket.ReadAll(ctx, "runs/it/"+ledger.CompletedName)
	if err != nil {
		t.Fatalf("read back ledger: %v", err)
	}
	for _, acc := range []string{"KX123456", "KY654321", "KZ000001"} {
		if !strings.Contains(string(data), acc) {
			t.Errorf("archived ledger missing %s", acc)
		}
	}

	local, err := os.ReadFile(filepath.Join(dir, ledger.CompletedName))
	if err != nil {
		t.Fatalf("read local ledger: %v", err)
	}
	if string(data) != string(local) {
		t.Error("archived ledger differs from local copy")
	}
}
