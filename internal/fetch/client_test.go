package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testOptions(server *httptest.Server) Options {
	opts := DefaultOptions()
	opts.URLTemplate = server.URL + "/?accession={accession}"
	opts.RetryBackoff = 10 * time.Millisecond
	return opts
}

func TestFetchJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept: application/json, got %q", got)
		}
		if got := r.URL.Query().Get("accession"); got != "KX123456" {
			t.Errorf("expected accession KX123456, got %q", got)
		}
		w.Write([]byte("[\n  {\"sequence\": \"ACGT\"}\n]"))
	}))
	defer server.Close()

	client := NewClient(testOptions(server))
	res, err := client.Fetch(context.Background(), "KX123456")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if res.Raw != "" {
		t.Errorf("expected no raw payload, got %q", res.Raw)
	}
	// Payload is compacted onto a single line.
	if string(res.Data) != `[{"sequence":"ACGT"}]` {
		t.Errorf("unexpected data: %s", res.Data)
	}
}

func TestFetchRawFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("accession,sequence\nKX123456,ACGT\n"))
	}))
	defer server.Close()

	client := NewClient(testOptions(server))
	res, err := client.Fetch(context.Background(), "KX123456")
	if err != nil {
		t.Fatalf("expected unparseable body to degrade to raw success, got %v", err)
	}

	if res.Data != nil {
		t.Errorf("expected no structured data, got %s", res.Data)
	}
	if res.Raw != "accession,sequence\nKX123456,ACGT\n" {
		t.Errorf("unexpected raw payload: %q", res.Raw)
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"sequence":"ACGT"}]`))
	}))
	defer server.Close()

	client := NewClient(testOptions(server))
	res, err := client.Fetch(context.Background(), "A1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if res.Data == nil {
		t.Error("expected structured data from retry")
	}
}

func TestRetryExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testOptions(server))
	_, err := client.Fetch(context.Background(), "A1")
	if err == nil {
		t.Fatal("expected error after both attempts fail")
	}
	if attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", attempts)
	}

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *fetch.Error, got %T", err)
	}
	if ferr.Kind != KindHTTP {
		t.Errorf("expected KindHTTP, got %v", ferr.Kind)
	}
	if !ferr.Retryable() {
		t.Error("expected HTTP errors to classify as retryable")
	}
	if ferr.Accession != "A1" {
		t.Errorf("expected accession A1, got %q", ferr.Accession)
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	// Closed server: connections are refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	opts := testOptions(server)
	server.Close()

	client := NewClient(opts)
	_, err := client.Fetch(context.Background(), "A1")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *fetch.Error, got %T", err)
	}
	if ferr.Kind != KindNetwork {
		t.Errorf("expected KindNetwork, got %v", ferr.Kind)
	}
}

func TestOtherErrorNotRetried(t *testing.T) {
	opts := DefaultOptions()
	opts.URLTemplate = "://not-a-url/{accession}"
	opts.RetryBackoff = 10 * time.Millisecond

	client := NewClient(opts)
	start := time.Now()
	_, err := client.Fetch(context.Background(), "A1")
	if err == nil {
		t.Fatal("expected error for malformed URL template")
	}
	if elapsed := time.Since(start); elapsed >= opts.RetryBackoff {
		t.Errorf("expected no retry backoff for KindOther, took %v", elapsed)
	}

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *fetch.Error, got %T", err)
	}
	if ferr.Kind != KindOther {
		t.Errorf("expected KindOther, got %v", ferr.Kind)
	}
	if ferr.Retryable() {
		t.Error("KindOther must not classify as retryable")
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	opts := testOptions(server)
	opts.Timeout = 50 * time.Millisecond

	client := NewClient(opts)
	_, err := client.Fetch(context.Background(), "A1")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *fetch.Error, got %T", err)
	}
	if ferr.Kind != KindNetwork {
		t.Errorf("expected KindNetwork for timeout, got %v", ferr.Kind)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(testOptions(server))
	_, err := client.Fetch(ctx, "A1")
	if err == nil {
		t.Error("expected error due to context cancellation")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNetwork, "network"},
		{KindHTTP, "http"},
		{KindOther, "other"},
		{Kind(99), "other"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
