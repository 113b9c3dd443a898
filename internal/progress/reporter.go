package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Output is where to write progress output.
	// Default: os.Stderr (stdout is reserved for command output)
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress information for item-based work.
type Reporter struct {
	opts Options

	total     int64
	completed atomic.Int64
	startTime time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
	stopped bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information for total items.
func (r *Reporter) Start(total int) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.total = int64(total)
	r.startTime = time.Now()
	r.mu.Unlock()

	fmt.Fprintf(r.opts.Output, "[harvest] Downloading %d accessions...\n", total)

	go r.updateLoop()
}

// Tick records one completed item (success or terminal failure).
// The completed count only ever increases.
func (r *Reporter) Tick() {
	r.completed.Add(1)
}

// Completed returns the number of items ticked so far.
func (r *Reporter) Completed() int {
	return int(r.completed.Load())
}

// Stop stops the progress reporter. Safe to call multiple times and
// before Start.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped || !r.started {
		r.stopped = true
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	completed := r.completed.Load()
	elapsed := time.Since(r.startTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(completed) / elapsed

	var percent float64
	eta := "calculating..."
	if r.total > 0 {
		percent = float64(completed) / float64(r.total) * 100
		if speed > 0 {
			remaining := float64(r.total - completed)
			eta = formatDuration(time.Duration(remaining / speed * float64(time.Second)))
		}
	}

	fmt.Fprintf(r.opts.Output, "\r[harvest] Progress: %d/%d (%.1f%%) | %.1f acc/s | ETA: %s    ",
		completed, r.total, percent, speed, eta)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	completed := r.completed.Load()
	duration := time.Since(r.startTime)
	speed := float64(completed) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[harvest] Progress: %d/%d | %.1f acc/s | Total time: %s    \n",
		completed, r.total, speed, formatDuration(duration))
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
