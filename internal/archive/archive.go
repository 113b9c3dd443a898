// Package archive copies an output directory to object storage.
//
// Buckets are addressed by gocloud.dev URL (s3://, gs://, file://, mem://),
// so completed runs can be pushed offsite without caring about the backend.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"gocloud.dev/blob"
)

// Stats summarizes an archive push.
type Stats struct {
	Files int
	Bytes int64
}

// Push uploads every regular file at the top level of dir to bucket,
// keyed as prefix/filename. Subdirectories are ignored.
func Push(ctx context.Context, bucket *blob.Bucket, dir, prefix string) (Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("archive: read dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		n, err := pushFile(ctx, bucket, filepath.Join(dir, entry.Name()), path.Join(prefix, entry.Name()))
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Bytes += n
	}
	return stats, nil
}

func pushFile(ctx context.Context, bucket *blob.Bucket, src, key string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("archive: open %s: %w", src, err)
	}
	defer f.Close()

	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return 0, fmt.Errorf("archive: create %s: %w", key, err)
	}

	n, err := io.Copy(w, f)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("archive: upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("archive: finalize %s: %w", key, err)
	}
	return n, nil
}
