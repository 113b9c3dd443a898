// Package config defines configuration structures for the harvest CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (HARVEST_ prefix)
//   - YAML configuration file
//
// Flags override environment variables, which override the file, which
// overrides the defaults.
//
// # Structure
//
//	type Config struct {
//	    URL               string
//	    Input             string
//	    OutputDir         string
//	    Concurrency       int
//	    Timeout           time.Duration
//	    BatchSize         int
//	    BatchPause        time.Duration
//	    RetryBackoff      time.Duration
//	    RequestsPerSecond float64
//	    Progress          bool
//	}
//
// The output directory implies the three log file paths by convention; see
// the path accessors on Config.
package config
