package downloader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vbadelita/harvest/internal/fetch"
	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/internal/progress"
	"github.com/vbadelita/harvest/pkg/records"
)

// Fetcher retrieves the payload for one accession.
type Fetcher interface {
	Fetch(ctx context.Context, accession string) (*fetch.Result, error)
}

// Options configures the downloader.
type Options struct {
	// Concurrency is the maximum number of fetches in flight.
	// Default: 10
	Concurrency int

	// BatchSize is the number of work items launched per batch.
	// Independent of Concurrency: it bounds task creation, not network use.
	// Default: 100
	BatchSize int

	// BatchPause is the pause between batches. Skipped after the last batch.
	// Default: 100ms
	BatchPause time.Duration

	// Progress is an optional progress reporter. Run starts and stops it.
	Progress *progress.Reporter
}

// Stats summarizes a run.
type Stats struct {
	Skipped   int // already in the success ledger at startup
	Succeeded int
	Failed    int
}

// Run downloads every accession not yet in the success ledger, appending
// successes to the record log and the ledger, and terminal failures to the
// failure ledger. Per-accession failures never abort the run; the returned
// error is non-nil only for cancellation or a durable-write failure.
func Run(ctx context.Context, accessions []string, led *ledger.Ledger, sink *records.Writer, fetcher Fetcher, opts Options) (Stats, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchPause <= 0 {
		opts.BatchPause = 100 * time.Millisecond
	}

	var stats Stats

	completed, err := led.Completed()
	if err != nil {
		return stats, err
	}

	// Work items keep the input order; only the ledger filters them.
	todo := make([]string, 0, len(accessions))
	for _, acc := range accessions {
		if completed[acc] {
			stats.Skipped++
			continue
		}
		todo = append(todo, acc)
	}
	if len(todo) == 0 {
		return stats, nil
	}

	if opts.Progress != nil {
		opts.Progress.Start(len(todo))
		defer opts.Progress.Stop()
	}

	sem := semaphore.NewWeighted(int64(opts.Concurrency))

	var succeeded, failed atomic.Int64

	// First durable-write failure; per-accession fetch errors never land here.
	var werrMu sync.Mutex
	var werr error
	recordWriteErr := func(err error) {
		werrMu.Lock()
		if werr == nil {
			werr = err
		}
		werrMu.Unlock()
	}

	for start := 0; start < len(todo); start += opts.BatchSize {
		if ctx.Err() != nil {
			break
		}

		end := start + opts.BatchSize
		if end > len(todo) {
			end = len(todo)
		}
		batch := todo[start:end]

		// Items already admitted run to completion even if ctx is
		// cancelled mid-batch; cancellation is observed between batches.
		itemCtx := context.WithoutCancel(ctx)

		var wg sync.WaitGroup
		for _, acc := range batch {
			wg.Add(1)
			go func(acc string) {
				defer wg.Done()

				if err := sem.Acquire(itemCtx, 1); err != nil {
					return
				}
				defer sem.Release(1)

				res, err := fetcher.Fetch(itemCtx, acc)
				if err != nil {
					kind, msg := classify(err)
					if lerr := led.MarkFailed(acc, kind, msg); lerr != nil {
						recordWriteErr(lerr)
					}
					failed.Add(1)
				} else {
					// Record first, ledger second: an interrupt in
					// between causes a refetch, never a lost record.
					rec := records.Record{Accession: acc, Data: res.Data, Raw: res.Raw}
					if err := sink.Append(rec); err != nil {
						recordWriteErr(err)
						failed.Add(1)
					} else if err := led.MarkCompleted(acc); err != nil {
						recordWriteErr(err)
						failed.Add(1)
					} else {
						succeeded.Add(1)
					}
				}

				if opts.Progress != nil {
					opts.Progress.Tick()
				}
			}(acc)
		}
		wg.Wait()

		if end < len(todo) {
			select {
			case <-ctx.Done():
			case <-time.After(opts.BatchPause):
			}
		}
	}

	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	werrMu.Lock()
	defer werrMu.Unlock()
	return stats, werr
}

// classify maps a fetch error to a failure-ledger classification and message.
func classify(err error) (kind, message string) {
	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		return ferr.Kind.String(), ferr.Err.Error()
	}
	return fetch.KindOther.String(), err.Error()
}
