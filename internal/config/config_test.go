package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vbadelita/harvest/internal/fetch"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.URL != fetch.DefaultURLTemplate {
		t.Errorf("expected default URL template, got %s", cfg.URL)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("expected default concurrency 10, got %d", cfg.Concurrency)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.BatchSize != 100 {
		t.Errorf("expected default batch size 100, got %d", cfg.BatchSize)
	}
	if cfg.BatchPause != 100*time.Millisecond {
		t.Errorf("expected default batch pause 100ms, got %v", cfg.BatchPause)
	}
	if cfg.RetryBackoff != 2*time.Second {
		t.Errorf("expected default retry backoff 2s, got %v", cfg.RetryBackoff)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("expected rate limit disabled by default, got %f", cfg.RequestsPerSecond)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{OutputDir: "out"}

	if got := cfg.RecordLogPath(); got != filepath.Join("out", "raw_data.jsonl") {
		t.Errorf("unexpected record log path: %s", got)
	}
	if got := cfg.CompletedListPath(); got != filepath.Join("out", "downloaded.txt") {
		t.Errorf("unexpected completed list path: %s", got)
	}
	if got := cfg.FailedListPath(); got != filepath.Join("out", "failed_accessions.txt") {
		t.Errorf("unexpected failed list path: %s", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
url: https://example.org/api?acc={accession}
input: accessions.txt
output_dir: downloads
concurrency: 20
timeout: 10s
batch_size: 50
batch_pause: 250ms
retry_backoff: 5s
requests_per_second: 4.5
progress: true
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.URL != "https://example.org/api?acc={accession}" {
		t.Errorf("unexpected URL: %s", cfg.URL)
	}
	if cfg.Input != "accessions.txt" {
		t.Errorf("unexpected input: %s", cfg.Input)
	}
	if cfg.OutputDir != "downloads" {
		t.Errorf("unexpected output dir: %s", cfg.OutputDir)
	}
	if cfg.Concurrency != 20 {
		t.Errorf("expected concurrency 20, got %d", cfg.Concurrency)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.BatchSize)
	}
	if cfg.BatchPause != 250*time.Millisecond {
		t.Errorf("expected batch pause 250ms, got %v", cfg.BatchPause)
	}
	if cfg.RetryBackoff != 5*time.Second {
		t.Errorf("expected retry backoff 5s, got %v", cfg.RetryBackoff)
	}
	if cfg.RequestsPerSecond != 4.5 {
		t.Errorf("expected 4.5 rps, got %f", cfg.RequestsPerSecond)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HARVEST_CONCURRENCY", "25")
	t.Setenv("HARVEST_TIMEOUT", "15s")
	t.Setenv("HARVEST_BATCH_SIZE", "200")
	t.Setenv("HARVEST_RETRY_BACKOFF", "500ms")
	t.Setenv("HARVEST_RPS", "2.5")
	t.Setenv("HARVEST_PROGRESS", "1")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Concurrency != 25 {
		t.Errorf("expected concurrency 25, got %d", cfg.Concurrency)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Timeout)
	}
	if cfg.BatchSize != 200 {
		t.Errorf("expected batch size 200, got %d", cfg.BatchSize)
	}
	if cfg.RetryBackoff != 500*time.Millisecond {
		t.Errorf("expected retry backoff 500ms, got %v", cfg.RetryBackoff)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 rps, got %f", cfg.RequestsPerSecond)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("HARVEST_CONCURRENCY", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid HARVEST_CONCURRENCY")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Input = "accessions.txt"
	valid.OutputDir = "downloads"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.URL = "" },
			wantErr: "url is required",
		},
		{
			name:    "URL without placeholder",
			mutate:  func(c *Config) { c.URL = "https://example.org/api" },
			wantErr: "placeholder",
		},
		{
			name:    "missing input",
			mutate:  func(c *Config) { c.Input = "" },
			wantErr: "input is required",
		},
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: "output directory",
		},
		{
			name:    "invalid concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency",
		},
		{
			name:    "invalid timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "invalid batch size",
			mutate:  func(c *Config) { c.BatchSize = -1 },
			wantErr: "batch_size",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.RequestsPerSecond = -1 },
			wantErr: "requests_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.Input = "accessions.txt"
	base.OutputDir = "downloads"

	override := Config{
		Concurrency: 32,
		Timeout:     5 * time.Second,
	}

	merged := base.Merge(override)

	// Should keep base values for non-overridden fields
	if merged.Input != "accessions.txt" {
		t.Errorf("expected Input preserved, got %s", merged.Input)
	}
	if merged.URL != base.URL {
		t.Errorf("expected URL preserved, got %s", merged.URL)
	}
	if merged.BatchSize != 100 {
		t.Errorf("expected BatchSize preserved, got %d", merged.BatchSize)
	}

	// Should use override values
	if merged.Concurrency != 32 {
		t.Errorf("expected Concurrency overridden to 32, got %d", merged.Concurrency)
	}
	if merged.Timeout != 5*time.Second {
		t.Errorf("expected Timeout overridden to 5s, got %v", merged.Timeout)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadYAMLBadDuration(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("timeout: fast\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for unparseable duration")
	}
}
