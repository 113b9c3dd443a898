package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultURLTemplate is the BV-BRC genome sequence endpoint.
const DefaultURLTemplate = "https://www.bv-brc.org/api/genome_sequence/?accession={accession}"

// Placeholder is the token in the URL template replaced by the accession.
const Placeholder = "{accession}"

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNetwork is a network-level error (dial, timeout, body read).
	KindNetwork Kind = iota
	// KindHTTP is a non-2xx response status.
	KindHTTP
	// KindOther is any failure outside the network/HTTP taxonomy. Never retried.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	default:
		return "other"
	}
}

// Error is a classified fetch failure for a single accession.
// Use errors.As to extract it and inspect Kind.
type Error struct {
	Accession string
	Kind      Kind
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s error: %v", e.Accession, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is eligible for the single retry.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindHTTP
}

// Options configures the fetch client.
type Options struct {
	// URLTemplate is the endpoint URL with a {accession} placeholder.
	// Default: DefaultURLTemplate
	URLTemplate string

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// RetryBackoff is the fixed delay before the single retry.
	// Default: 2s
	RetryBackoff time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 100
	MaxIdleConnsPerHost int

	// RequestsPerSecond limits the request rate across all in-flight
	// fetches. 0 disables the limit.
	RequestsPerSecond float64
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		URLTemplate:         DefaultURLTemplate,
		Timeout:             30 * time.Second,
		RetryBackoff:        2 * time.Second,
		MaxIdleConnsPerHost: 100,
	}
}

// Result is a successful fetch outcome. Data holds the payload compacted to
// a single line when the body was valid JSON; otherwise Raw holds the body
// verbatim.
type Result struct {
	Data json.RawMessage
	Raw  string
}

// Client fetches accession payloads. Safe for concurrent use.
type Client struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
}

// NewClient creates a client with the given options. Zero fields fall back
// to DefaultOptions values.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.URLTemplate == "" {
		opts.URLTemplate = def.URLTemplate
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = def.RetryBackoff
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// Fetch retrieves the payload for one accession, retrying once after a
// fixed backoff on network or HTTP-status errors. Other failures are
// terminal on the first attempt. The returned error is always a *Error.
func (c *Client) Fetch(ctx context.Context, accession string) (*Result, error) {
	var lastErr *Error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &Error{Accession: accession, Kind: KindOther, Err: ctx.Err()}
			case <-time.After(c.opts.RetryBackoff):
			}
		}

		res, ferr := c.fetchOnce(ctx, accession)
		if ferr == nil {
			return res, nil
		}
		if !ferr.Retryable() {
			return nil, ferr
		}
		lastErr = ferr
	}
	return nil, lastErr
}

// fetchOnce performs a single attempt.
func (c *Client) fetchOnce(ctx context.Context, accession string) (*Result, *Error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Accession: accession, Kind: KindOther, Err: err}
		}
	}

	target := strings.ReplaceAll(c.opts.URLTemplate, Placeholder, url.QueryEscape(accession))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Accession: accession, Kind: KindOther, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Accession: accession, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{Accession: accession, Kind: KindHTTP, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Accession: accession, Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	// Compacting keeps each record on one log line. A body that is not
	// valid JSON is stored verbatim for later inspection, not failed.
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return &Result{Raw: string(body)}, nil
	}
	return &Result{Data: json.RawMessage(buf.Bytes())}, nil
}
