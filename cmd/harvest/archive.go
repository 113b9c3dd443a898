package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/vbadelita/harvest/internal/archive"
)

// runArchive uploads an output directory to an object-storage bucket.
func runArchive(args []string) int {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)

	dir := fs.String("dir", "", "Output directory to upload (required)")
	bucket := fs.String("bucket", "", "Destination bucket URL (required)")
	prefix := fs.String("prefix", "", "Key prefix inside the bucket")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: harvest archive [options]

Upload every file at the top level of the output directory to an
object-storage bucket (s3://, gs://, file://), keyed as prefix/filename.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *dir == "" || *bucket == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir and -bucket are required")
		fs.Usage()
		return ExitInvalidArgs
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	bkt, err := blob.OpenBucket(ctx, *bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bkt.Close()

	stats, err := archive.Push(ctx, bkt, *dir, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[harvest] Uploaded %d files (%d bytes)\n",
		stats.Files, stats.Bytes)
	return ExitSuccess
}
