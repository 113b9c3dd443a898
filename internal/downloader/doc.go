// Package downloader orchestrates the resumable, concurrency-bounded bulk
// download of accession payloads.
//
// This package coordinates the fetch client, the ledger, and the record
// log. It filters out accessions already present in the success ledger,
// fans the remaining work out in fixed-size batches gated by a weighted
// semaphore, and records every terminal outcome.
//
// # Usage
//
// The main entry point is the Run function:
//
//	stats, err := downloader.Run(ctx, accessions, led, sink, client, downloader.Options{
//	    Concurrency: 10,
//	    BatchSize:   100,
//	})
//
// # Scheduling
//
// Work items are dispatched in input order, one goroutine per item, with at
// most Concurrency fetches in flight. Each batch is waited on in full
// before the next starts, with a short pause in between, so task state
// stays bounded for very large input lists. A failing item never aborts
// its siblings.
//
// # Graceful Shutdown
//
// Cancellation is observed between batches and during the pause. Items in
// the current batch run to completion on an uncancelled context, so no
// partial outcomes are recorded.
//
// # Durability
//
// On success the record is appended before the ledger entry. An interrupt
// between the two leaves a record without a ledger line; the accession is
// fetched again on resume, which may duplicate a record but never lose one.
package downloader
