package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vbadelita/harvest/internal/config"
	"github.com/vbadelita/harvest/internal/downloader"
	"github.com/vbadelita/harvest/internal/fetch"
	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/internal/progress"
	"github.com/vbadelita/harvest/pkg/records"
)

// runFetch downloads every accession in the input list that is not already
// in the success ledger. Safe to interrupt and rerun: completed accessions
// are skipped on resume.
func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configFile := fs.String("config", "", "Path to YAML config file")
	url := fs.String("url", "", "Endpoint URL template with an {accession} placeholder")
	input := fs.String("input", "", "Accession list file, one per line (required)")
	output := fs.String("output", "", "Output directory (required)")
	concurrency := fs.Int("concurrency", 0, "Maximum concurrent fetches")
	timeout := fs.Duration("timeout", 0, "Per-request timeout")
	batchSize := fs.Int("batch-size", 0, "Accessions launched per batch")
	batchPause := fs.Duration("batch-pause", 0, "Pause between batches")
	retryBackoff := fs.Duration("retry-backoff", 0, "Delay before the single retry")
	rps := fs.Float64("rps", 0, "Request rate limit, requests per second (0 = unlimited)")
	showProgress := fs.Bool("progress", false, "Show progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: harvest fetch [options]

Download the payload for every accession in the input list. Successful
payloads are appended to raw_data.jsonl and the accession to downloaded.txt;
terminal failures go to failed_accessions.txt. Interrupt with Ctrl-C and
rerun to resume: accessions in downloaded.txt are skipped.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	// Config precedence: defaults < file < env < flags.
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		return ExitInvalidArgs
	}
	cfg = cfg.Merge(config.Config{
		URL:               *url,
		Input:             *input,
		OutputDir:         *output,
		Concurrency:       *concurrency,
		Timeout:           *timeout,
		BatchSize:         *batchSize,
		BatchPause:        *batchPause,
		RetryBackoff:      *retryBackoff,
		RequestsPerSecond: *rps,
		Progress:          *showProgress,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	accessions, err := readAccessions(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input list: %v\n", err)
		return ExitInputError
	}
	if len(accessions) == 0 {
		fmt.Fprintln(os.Stderr, "[harvest] Input list is empty, nothing to do")
		return ExitSuccess
	}

	led, err := ledger.Open(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening output dir: %v\n", err)
		return ExitOutputError
	}
	defer led.Close()

	sink, err := records.NewWriter(cfg.RecordLogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening record log: %v\n", err)
		return ExitOutputError
	}
	defer sink.Close()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[harvest] Received interrupt, finishing current batch...")
		cancel()
	}()

	client := fetch.NewClient(fetch.Options{
		URLTemplate:       cfg.URL,
		Timeout:           cfg.Timeout,
		RetryBackoff:      cfg.RetryBackoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			UpdateInterval: 500 * time.Millisecond,
		})
	}

	stats, err := downloader.Run(ctx, accessions, led, sink, client, downloader.Options{
		Concurrency: cfg.Concurrency,
		BatchSize:   cfg.BatchSize,
		BatchPause:  cfg.BatchPause,
		Progress:    reporter,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "[harvest] Interrupted, run again to resume")
			return ExitGeneralError
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if stats.Skipped == len(accessions) {
		fmt.Fprintln(os.Stderr, "[harvest] All accessions already downloaded")
		return ExitSuccess
	}

	// The summary re-reads the ledgers, so the totals span every run
	// against this output directory.
	completed, failed, err := led.Counts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledgers: %v\n", err)
		return ExitGeneralError
	}
	fmt.Fprintln(os.Stderr, "[harvest] Download complete")
	fmt.Fprintf(os.Stderr, "[harvest] Downloaded: %d | Failed: %d | Total processed: %d\n",
		completed, failed, completed+failed)

	return ExitSuccess
}

// readAccessions reads one accession per line, trimming whitespace and
// skipping blank lines.
func readAccessions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var accessions []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			accessions = append(accessions, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return accessions, nil
}
