// Package store writes rendered documents to their destination.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives rendered documents.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	// Location reports where name ends up, for status output.
	Location(name string) string
}

// Open returns the sink for dest: an s3://bucket/prefix URL or a local
// directory. An empty dest means the working directory.
func Open(dest string, cfg S3Config) (Sink, error) {
	dest = strings.TrimSpace(dest)
	if bucket, prefix, ok := ParseS3URL(dest); ok {
		cfg.Bucket = bucket
		cfg.Prefix = prefix
		return NewS3Sink(cfg)
	}
	if dest == "" {
		dest = "."
	}
	return NewDirSink(dest), nil
}

// ParseS3URL splits s3://bucket/some/prefix into its bucket and prefix.
func ParseS3URL(dest string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(dest), "s3://")
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), true
}

// DirSink writes files into a local directory, creating it on first use.
type DirSink struct {
	dir string
}

// NewDirSink returns a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Put writes data to dir/name.
func (s *DirSink) Put(ctx context.Context, name, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name is required")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := s.Location(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *DirSink) Location(name string) string {
	return filepath.Join(s.dir, name)
}
