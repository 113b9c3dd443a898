// Package progress provides progress reporting for bulk downloads.
//
// This package outputs human-readable progress information to stderr,
// including completed counts, throughput, and ETA. Reporting is purely
// observational and has no effect on scheduling.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{})
//
//	reporter.Start(totalItems)
//	defer reporter.Stop()
//
//	// Call once per item after its terminal outcome is known
//	reporter.Tick()
//
// # Output Format
//
//	[harvest] Downloading 4821 accessions...
//	[harvest] Progress: 2310/4821 (47.9%) | 18.4 acc/s | ETA: 2m 16s
package progress
