// Package collate implements the two grouping strategies that turn a stream
// of corrected, arbitrarily-ordered records into per-cell contiguous
// chunks: an in-memory single-bucket collator and an allocation-bounded
// two-pass collator.
package collate

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/internal/pool"
	"github.com/scrnaseq/radcollate/wire"
)

// CorrectedCbChunk accumulates every record belonging to one corrected
// barcode until dumped. The first 8 bytes of the backing buffer are
// reserved for the (nbytes, nrec) chunk header and rewritten in place by
// DumpChunk.
type CorrectedCbChunk struct {
	CorrectedBC      uint64
	RemainingRecords uint32
	NRec             uint32
	buf              *pool.ByteBuffer
}

const chunkHeaderBytes = 8

// NewCorrectedCbChunk creates a chunk accumulator for bc. numRemain (the
// estimated or known number of records still to arrive for this barcode)
// presizes the buffer and seeds RemainingRecords, which MarkRecordSeen
// counts down; callers that rely on MarkRecordSeen to detect the last
// record must pass the exact count.
func NewCorrectedCbChunk(bc uint64, numRemain uint32) *CorrectedCbChunk {
	c := &CorrectedCbChunk{
		CorrectedBC:      bc,
		RemainingRecords: numRemain,
		buf:              pool.GetChunkBuffer(),
	}

	c.buf.Grow(int(numRemain) * 24)
	c.buf.MustWrite(make([]byte, chunkHeaderBytes))

	return c
}

// WriteRecord appends one record, decoding and re-encoding its alignment
// entries from refs (used on paths that have already applied orientation
// filtering, so verbatim copy isn't possible).
func (c *CorrectedCbChunk) WriteRecord(umi uint64, refs []uint32, bct, umit format.RadIntID) error {
	w := wire.NewWriter(c.buf)

	if err := w.WriteU32(uint32(len(refs))); err != nil {
		return err
	}

	if err := w.WriteUint(bct, c.CorrectedBC); err != nil {
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

	c.NRec++

	return nil
}

// WriteRecordRaw appends one record by copying its na alignment bytes
// verbatim from src, without decoding them — the zero-copy path used when
// no orientation filtering is needed.
func (c *CorrectedCbChunk) WriteRecordRaw(na uint32, umi uint64, alignBytes []byte, bct, umit format.RadIntID) error {
	if uint32(len(alignBytes)) != 4*na {
		return fmt.Errorf("%w: alignment byte slice has wrong length", errs.ErrMalformedRecord)
	}

	w := wire.NewWriter(c.buf)

	if err := w.WriteU32(na); err != nil {
		return err
	}

	if err := w.WriteUint(bct, c.CorrectedBC); err != nil {
		return err
	}

	if err := w.WriteUint(umit, umi); err != nil {
		return err
	}

	c.buf.MustWrite(alignBytes)
	c.NRec++

	return nil
}

// MarkRecordSeen decrements the remaining-record counter and reports
// whether this was the last record this chunk will ever receive. Called
// once per incoming record regardless of whether the record was actually
// written (a record emptied by orientation filtering still counts).
func (c *CorrectedCbChunk) MarkRecordSeen() (lastRecord bool) {
	c.RemainingRecords--
	return c.RemainingRecords == 0
}

// DumpChunk finalizes the header in place and writes the complete chunk to
// w, then releases the backing buffer to the pool. The chunk must not be
// used again afterward.
func (c *CorrectedCbChunk) DumpChunk(w io.Writer) (int64, error) {
	nbytes := uint32(c.buf.Len())
	binary.LittleEndian.PutUint32(c.buf.B[0:4], nbytes)
	binary.LittleEndian.PutUint32(c.buf.B[4:8], c.NRec)

	n, err := w.Write(c.buf.B)
	if err != nil {
		err = fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	pool.PutChunkBuffer(c.buf)
	c.buf = nil

	return int64(n), err
}
