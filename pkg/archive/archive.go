// Package archive uploads audit log records to durable object storage. When
// the upload fails the record is written to local disk instead so the audit
// trail of a sent notice is never lost.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"gocloud.dev/blob"
)

// Putter is the archival surface consumed by the workflow.
type Putter interface {
	// Put stores the record and returns its final location. A non-nil error
	// means the upload failed; the returned location then points at the
	// local fallback copy.
	Put(ctx context.Context, content []byte) (string, error)
}

// Store writes records to a blob bucket addressed by URL (s3://, file://, ...)
// with a local-directory fallback.
type Store struct {
	bucketURL   string
	prefix      string
	fallbackDir string
	clock       clockwork.Clock
}

// New builds a store. prefix is prepended to every object key.
func New(bucketURL, prefix, fallbackDir string, clock clockwork.Clock) *Store {
	return &Store{
		bucketURL:   bucketURL,
		prefix:      prefix,
		fallbackDir: fallbackDir,
		clock:       clock,
	}
}

// Put uploads the record under a key derived from the current time and host
// identity, e.g. 20260901/1504.05_myhost.log.
func (s *Store) Put(ctx context.Context, content []byte) (string, error) {
	now := s.clock.Now()

	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	key := s.prefix + now.Format("20060102/1504.05") + "_" + host + ".log"

	bucket, err := blob.OpenBucket(ctx, s.bucketURL)
	if err != nil {
		return s.fallback(content, fmt.Errorf("could not open bucket %q: %w", s.bucketURL, err))
	}
	defer bucket.Close()

	if err := bucket.WriteAll(ctx, key, content, nil); err != nil {
		return s.fallback(content, fmt.Errorf("could not upload %q: %w", key, err))
	}
	return key, nil
}

// fallback writes the record to the local fallback directory and returns the
// original upload error alongside the local path.
func (s *Store) fallback(content []byte, uploadErr error) (string, error) {
	name := "im-notices." + s.clock.Now().Format("20060102-1504.05") + "_localhost.log"
	path := filepath.Join(s.fallbackDir, name)

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", UploadErr{Err: fmt.Errorf("%w (local fallback also failed: %v)", uploadErr, err)}
	}
	return path, UploadErr{Err: uploadErr}
}
