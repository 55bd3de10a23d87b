package collate

import (
	"fmt"
	"io"
	"sync"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/record"
)

// estRecordsPerCell seeds CorrectedCbChunk's initial buffer size when no
// better estimate of per-cell record count is available.
const estRecordsPerCell = 1

// SingleBucketCollator groups records by corrected barcode into per-CB
// CorrectedCbChunk accumulators, held in a map that is private to this
// collator — per spec §5, the map is never shared across workers; only the
// eventual DumpChunk target is.
type SingleBucketCollator struct {
	bct, umit format.RadIntID
	remaining map[uint64]uint32
	cache     map[uint64]*CorrectedCbChunk
}

// NewSingleBucketCollator creates a collator. remaining, if non-nil, maps a
// corrected barcode to the total number of records it will ever receive
// across the whole input (typically derived from a prior histogram pass
// via record.UpdateBarcodeHistUnfiltered); it lets ProcessChunk dump a CB's
// chunk as soon as it is complete instead of waiting until the caller
// explicitly flushes. CollateRaw does not require it.
func NewSingleBucketCollator(bct, umit format.RadIntID, remaining map[uint64]uint32) *SingleBucketCollator {
	return &SingleBucketCollator{
		bct:       bct,
		umit:      umit,
		remaining: remaining,
		cache:     make(map[uint64]*CorrectedCbChunk),
	}
}

// CollateRaw reads nrec already-corrected records from r and groups them by
// barcode, copying each record's alignment bytes verbatim. It does not dump
// any chunk itself; call DumpAll once every record has been read. This is
// the grouping step applied to a temp-bucket file's contents, where the
// barcode has already been corrected upstream.
func (s *SingleBucketCollator) CollateRaw(r io.Reader, nrec uint32) error {
	for i := uint32(0); i < nrec; i++ {
		bc, umi, na, err := record.ReadRecordHeader(r, s.bct, s.umit)
		if err != nil {
			return err
		}

		v, ok := s.cache[bc]
		if !ok {
			v = NewCorrectedCbChunk(bc, estRecordsPerCell)
			s.cache[bc] = v
		}

		alignBytes := make([]byte, 4*na)
		if _, err := io.ReadFull(r, alignBytes); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIO, err)
		}

		if err := v.WriteRecordRaw(na, umi, alignBytes, s.bct, s.umit); err != nil {
			return err
		}
	}

	return nil
}

// ProcessChunk reads nrec raw (uncorrected) records from r, looks each
// barcode up in correctMap, applies expected orientation filtering to
// correctable records, and accumulates them by corrected barcode. A CB
// chunk is dumped to w (under writerMu) the instant its remaining-record
// count (from the collator's remaining map) reaches zero. Records whose
// barcode is absent from correctMap have their alignment bytes discarded.
func (s *SingleBucketCollator) ProcessChunk(r io.Reader, nrec uint32, correctMap map[uint64]uint64, expected record.Strand, w io.Writer, writerMu *sync.Mutex) (CorrectionStats, error) {
	var stats CorrectionStats

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

		v, ok := s.cache[correctedID]
		if !ok {
			v = NewCorrectedCbChunk(correctedID, s.remaining[correctedID])
			s.cache[correctedID] = v
		}

		lastRecord := v.MarkRecordSeen()

		if !rr.IsEmpty() {
			if err := v.WriteRecord(rr.UMI, rr.Refs, s.bct, s.umit); err != nil {
				return stats, err
			}
		}

		if lastRecord {
			writerMu.Lock()
			_, dumpErr := v.DumpChunk(w)
			writerMu.Unlock()

			delete(s.cache, correctedID)

			if dumpErr != nil {
				return stats, dumpErr
			}
		}
	}

	return stats, nil
}

// DumpAll flushes every chunk still held by the collator to w under
// writerMu, regardless of its remaining-record count. Used after CollateRaw,
// and as a final sweep for any CB whose remaining count in ProcessChunk
// never reached zero (a caller-supplied remaining map whose count for that
// barcode is missing or differs from the records actually seen).
func (s *SingleBucketCollator) DumpAll(w io.Writer, writerMu *sync.Mutex) error {
	writerMu.Lock()
	defer writerMu.Unlock()

	for bc, v := range s.cache {
		if _, err := v.DumpChunk(w); err != nil {
			return err
		}

		delete(s.cache, bc)
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
