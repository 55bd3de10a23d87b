package shard

import (
	"fmt"
	"io"

	"github.com/scrnaseq/radcollate/collate"
	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/record"
)

// Sharder routes corrected records from one input stream to the temp
// buckets selected by a BucketRouter, through goroutine-local cursors. One
// Sharder belongs to exactly one goroutine; its cursor map is never shared.
type Sharder struct {
	bct, umit  format.RadIntID
	router     *BucketRouter
	buckets    map[uint32]*TempBucket
	cursors    map[uint32]*ThreadLocalCursor
	flushLimit int
}

// NewSharder creates a sharder over the given bucket set. flushLimit is
// applied to every cursor this sharder creates; use DefaultFlushLimit when
// the caller has no stronger opinion.
func NewSharder(bct, umit format.RadIntID, router *BucketRouter, buckets map[uint32]*TempBucket, flushLimit int) *Sharder {
	return &Sharder{
		bct:        bct,
		umit:       umit,
		router:     router,
		buckets:    buckets,
		cursors:    make(map[uint32]*ThreadLocalCursor),
		flushLimit: flushLimit,
	}
}

func (s *Sharder) cursorFor(bucketID uint32) (*ThreadLocalCursor, error) {
	if c, ok := s.cursors[bucketID]; ok {
		return c, nil
	}

	bucket, ok := s.buckets[bucketID]
	if !ok {
		return nil, fmt.Errorf("%w: no bucket registered for id %d", errs.ErrInvariantViolation, bucketID)
	}

	c := NewThreadLocalCursor(bucket, s.flushLimit)
	s.cursors[bucketID] = c

	return c, nil
}

// ProcessChunk reads nrec raw (uncorrected) records from r, corrects each
// barcode via correctMap, applies the orientation filter, and appends every
// correctable, non-empty record to the bucket its corrected barcode routes
// to. Uncorrectable records have their alignment bytes discarded; records
// emptied by orientation filtering are skipped without being appended.
func (s *Sharder) ProcessChunk(r io.Reader, nrec uint32, correctMap map[uint64]uint64, expected record.Strand) (collate.CorrectionStats, error) {
	var stats collate.CorrectionStats

	for i := uint32(0); i < nrec; i++ {
		bc, umi, na, err := record.ReadRecordHeader(r, s.bct, s.umit)
		if err != nil {
			return stats, err
		}

		correctedID, ok := correctMap[bc]
		if !ok {
			if err := discardAlignments(r, na); err != nil {
				return stats, err
			}

			stats.RecordUnmapped()

			continue
		}

		rr, err := record.ReadRecordKeepOri(r, correctedID, umi, na, expected)
		if err != nil {
			return stats, err
		}

		stats.RecordCorrected()

		if rr.IsEmpty() {
			continue
		}

		bucketID := s.router.BucketFor(correctedID)

		cur, err := s.cursorFor(bucketID)
		if err != nil {
			return stats, err
		}

		if err := cur.Append(correctedID, rr.UMI, rr.Refs, s.bct, s.umit); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// Close flushes and releases every cursor this sharder created. It does not
// close the underlying buckets, which may still be receiving records from
// other sharders.
func (s *Sharder) Close() error {
	for id, c := range s.cursors {
		if err := c.Close(); err != nil {
			return err
		}

		delete(s.cursors, id)
	}

	return nil
}

func discardAlignments(r io.Reader, na uint32) error {
	if na == 0 {
		return nil
	}

	buf := make([]byte, 4*na)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}
