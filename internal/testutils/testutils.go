//go:build integration

// Package testutils provides shared test infrastructure for integration tests.
package testutils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gocloud.dev/blob"
)

// StartAccessionServer starts an HTTP server that mimics the genome sequence
// API: GET /api/genome_sequence/?accession=X returns the JSON body from
// payloads, a 404 for unknown accessions, and a 500 for accessions in flaky
// until they have been requested once.
func StartAccessionServer(t *testing.T, payloads map[string]string, flaky map[string]bool) *httptest.Server {
	t.Helper()

	seen := make(map[string]bool)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc := r.URL.Query().Get("accession")
		if flaky[acc] && !seen[acc] {
			seen[acc] = true
			http.Error(w, "temporarily unavailable", http.StatusInternalServerError)
			return
		}
		body, ok := payloads[acc]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

// WriteAccessionList writes one accession per line to a file in dir and
// returns its path.
func WriteAccessionList(t *testing.T, dir string, accessions []string) string {
	t.Helper()
	path := filepath.Join(dir, "accessions.txt")
	if err := os.WriteFile(path, []byte(strings.Join(accessions, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write accession list: %v", err)
	}
	return path
}

// MinioEnv contains connection information for a Minio test environment.
type MinioEnv struct {
	Container testcontainers.Container
	BucketURL string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Close terminates the Minio container.
func (e *MinioEnv) Close(ctx context.Context) error {
	if e.Container != nil {
		return e.Container.Terminate(ctx)
	}
	return nil
}

// OpenBucket opens a gocloud bucket connection to the Minio environment.
func (e *MinioEnv) OpenBucket(ctx context.Context) (*blob.Bucket, error) {
	return blob.OpenBucket(ctx, e.BucketURL)
}

// StartMinioContainer starts a Minio container with a pre-created bucket.
// Returns a MinioEnv with connection information.
func StartMinioContainer(t *testing.T, ctx context.Context, bucketName string) *MinioEnv {
	t.Helper()

	const (
		accessKey = "minioadmin"
		secretKey = "minioadmin"
	)

	// Create a network for minio and mc to communicate
	networkName := fmt.Sprintf("minio-test-net-%d", time.Now().UnixNano())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{
			Name: networkName,
		},
	})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	t.Cleanup(func() { network.Remove(ctx) })

	// Start minio container
	minioReq := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Networks:     []string{networkName},
		NetworkAliases: map[string][]string{
			networkName: {"minio"},
		},
		Env: map[string]string{
			"MINIO_ROOT_USER":     accessKey,
			"MINIO_ROOT_PASSWORD": secretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
	}

	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: minioReq,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}

	// Create bucket using mc container
	createBucketWithMC(t, ctx, networkName, accessKey, secretKey, bucketName)

	host, err := minioContainer.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}

	port, err := minioContainer.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("get container port: %v", err)
	}

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	// Build gocloud S3 URL with query parameters for minio
	bucketURL := fmt.Sprintf("s3://%s?endpoint=http://%s&use_path_style=true&disable_https=true&region=us-east-1",
		bucketName,
		endpoint,
	)

	// Set AWS credentials via environment variables (gocloud reads these)
	t.Setenv("AWS_ACCESS_KEY_ID", accessKey)
	t.Setenv("AWS_SECRET_ACCESS_KEY", secretKey)

	return &MinioEnv{
		Container: minioContainer,
		BucketURL: bucketURL,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

// createBucketWithMC creates a bucket using a separate minio/mc container.
func createBucketWithMC(t *testing.T, ctx context.Context, networkName, accessKey, secretKey, bucketName string) {
	t.Helper()

	// mc container runs, creates the bucket, then exits
	mcReq := testcontainers.ContainerRequest{
		Image:      "minio/mc:latest",
		Networks:   []string{networkName},
		Entrypoint: []string{"/bin/sh", "-c"},
		Cmd: []string{
			fmt.Sprintf(
				"/usr/bin/mc config host add myminio http://minio:9000 %s %s && "+
					"/usr/bin/mc mb myminio/%s && "+
					"/usr/bin/mc policy set download myminio/%s; "+
					"exit 0",
				accessKey, secretKey, bucketName, bucketName,
			),
		},
		WaitingFor: wait.ForExit(),
	}

	mcContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: mcReq,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start mc container: %v", err)
	}
	defer mcContainer.Terminate(ctx)
}
