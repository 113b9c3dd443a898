// Package fetch provides the HTTP client that retrieves one payload per
// accession from the upstream API.
//
// This package handles:
//   - URL template substitution ({accession} placeholder)
//   - Per-request timeout and connection pooling
//   - A single retry after a fixed backoff for network and HTTP-status errors
//   - An optional request rate limit
//   - Outcome classification via a closed error-kind enumeration
//
// # Usage
//
//	client := fetch.NewClient(fetch.Options{
//	    URLTemplate:  "https://www.bv-brc.org/api/genome_sequence/?accession={accession}",
//	    Timeout:      30 * time.Second,
//	    RetryBackoff: 2 * time.Second,
//	})
//
//	res, err := client.Fetch(ctx, "KX123456")
//	// res.Data holds the compacted JSON payload, or res.Raw the verbatim
//	// body when the response was not valid JSON.
//
// # Classification
//
// Failures carry a [Kind] inspectable with errors.As:
//
//	var ferr *fetch.Error
//	if errors.As(err, &ferr) {
//	    ferr.Kind // KindNetwork, KindHTTP, or KindOther
//	}
//
// KindNetwork and KindHTTP are retried once; KindOther is terminal on the
// first attempt. A 2xx body that fails to parse as JSON is not a failure at
// all: it degrades to a raw-tagged result for later inspection.
package fetch
