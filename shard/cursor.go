package shard

import (
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/internal/pool"
	"github.com/scrnaseq/radcollate/record"
	"github.com/scrnaseq/radcollate/wire"
)

// DefaultFlushLimit is the default thread-local buffer size per bucket
// before it is flushed to disk.
const DefaultFlushLimit = 4096

// ThreadLocalCursor accumulates encoded records for one bucket, owned by a
// single goroutine, flushing to the bucket's shared file under its lock
// once the next record would bring it to the flush limit or beyond.
type ThreadLocalCursor struct {
	bucket     *TempBucket
	buf        *pool.ByteBuffer
	flushLimit int
}

// NewThreadLocalCursor creates a cursor writing into bucket, flushing
// whenever its local buffer would reach flushLimit bytes or more.
func NewThreadLocalCursor(bucket *TempBucket, flushLimit int) *ThreadLocalCursor {
	return &ThreadLocalCursor{
		bucket:     bucket,
		buf:        pool.GetChunkBuffer(),
		flushLimit: flushLimit,
	}
}

// Append encodes one record (na, correctedBC, umi, refs...) — refs already
// orientation-filtered and stripped of their strand bit — into the
// cursor's local buffer, flushing first if the record would bring the
// buffer to the flush limit or beyond.
func (c *ThreadLocalCursor) Append(correctedBC, umi uint64, refs []uint32, bct, umit format.RadIntID) error {
	na := uint32(len(refs))
	recBytes := int(record.RecordBytes(na, bct, umit))

	if c.buf.Len()+recBytes >= c.flushLimit {
		if err := c.Flush(); err != nil {
			return err
		}
	}

	w := wire.NewWriter(c.buf)

	if err := w.WriteU32(na); err != nil {
		return err
	}

	if err := w.WriteUint(bct, correctedBC); err != nil {
		return err
	}

	if err := w.WriteUint(umit, umi); err != nil {
		return err
	}

	for _, ref := range refs {
		if err := w.WriteU32(ref); err != nil {
			return err
		}
	}

	c.bucket.NumRecordsWritten.Add(1)
	c.bucket.NumBytesWritten.Add(uint64(recBytes))

	return nil
}

// Flush writes the cursor's buffered content to the bucket under its lock
// and resets the local buffer. A no-op when the buffer is empty.
func (c *ThreadLocalCursor) Flush() error {
	if c.buf.Len() == 0 {
		return nil
	}

	if err := c.bucket.Flush(c.buf.B); err != nil {
		return err
	}

	c.buf.Reset()

	return nil
}

// Close flushes any remaining content and releases the local buffer to the
// pool. The cursor must not be used again afterward.
func (c *ThreadLocalCursor) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}

	pool.PutChunkBuffer(c.buf)
	c.buf = nil

	return nil
}
