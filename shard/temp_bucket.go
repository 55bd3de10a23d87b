// Package shard implements the parallel, disk-backed alternative to the
// in-memory single-bucket collator: a fixed set of temp-bucket files, each
// fed by per-goroutine cursors that flush under the bucket's own lock once
// they would overflow.
package shard

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/scrnaseq/radcollate/errs"
)

// TempBucket is a durable, shared, append-only output file for one bucket
// id. Bucket counters are updated atomically so ThreadLocalCursor.Append
// can report progress without holding the bucket's own lock any longer
// than the write itself requires.
type TempBucket struct {
	BucketID   uint32
	NumChunks  uint32
	NumRecords uint32

	NumRecordsWritten atomic.Uint32
	NumBytesWritten   atomic.Uint64

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// NewTempBucket creates (or truncates) "bucket_<id>.tmp" inside dir.
func NewTempBucket(bucketID uint32, dir string) (*TempBucket, error) {
	path := filepath.Join(dir, fmt.Sprintf("bucket_%d.tmp", bucketID))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return &TempBucket{
		BucketID: bucketID,
		file:     f,
		writer:   bufio.NewWriterSize(f, 4096),
	}, nil
}

// Flush appends p to the bucket file as a single locked write. p should be
// a complete run of whole encoded records, never a partial one.
func (b *TempBucket) Flush(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	b.mu.Lock()
	_, err := b.writer.Write(p)
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}

// Close flushes the buffered writer and closes the underlying file. The
// bucket must not be used again afterward.
func (b *TempBucket) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writer.Flush(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	if err := b.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}

// Path returns the bucket's backing file path, for reopening it as a
// two-pass collator input once collation is complete.
func (b *TempBucket) Path() string {
	return b.file.Name()
}
