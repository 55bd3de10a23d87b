package record

import (
	"io"
	"slices"

	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/wire"
)

// ReadRecord is one decoded mapped-read record: a corrected or raw barcode,
// a UMI, and the alignment list split into parallel direction/reference-id
// arrays.
type ReadRecord struct {
	BC   uint64
	UMI  uint64
	Dirs []bool
	Refs []uint32
}

// IsEmpty reports whether the record has no surviving alignments, which can
// legally happen after orientation filtering.
func (r ReadRecord) IsEmpty() bool {
	return len(r.Refs) == 0
}

// ReadRecordHeader reads only (na, bc, umi) and leaves the na alignment
// entries on the wire, letting the caller copy them verbatim instead of
// parsing and re-emitting them.
func ReadRecordHeader(r io.Reader, bct, umit format.RadIntID) (bc, umi uint64, na uint32, err error) {
	rd := wire.NewReader(r)

	na64, err := rd.ReadU32()
	if err != nil {
		return 0, 0, 0, err
	}

	bc, err = rd.ReadUint(bct)
	if err != nil {
		return 0, 0, 0, err
	}

	umi, err = rd.ReadUint(umit)
	if err != nil {
		return 0, 0, 0, err
	}

	return bc, umi, na64, nil
}

// ReadFullRecord decodes a complete ReadRecord: header plus all na
// alignment entries, unfiltered.
func ReadFullRecord(r io.Reader, bct, umit format.RadIntID) (ReadRecord, error) {
	bc, umi, na, err := ReadRecordHeader(r, bct, umit)
	if err != nil {
		return ReadRecord{}, err
	}

	rd := wire.NewReader(r)
	rec := ReadRecord{
		BC:   bc,
		UMI:  umi,
		Dirs: make([]bool, 0, na),
		Refs: make([]uint32, 0, na),
	}

	for i := uint32(0); i < na; i++ {
		entry, err := rd.ReadU32()
		if err != nil {
			return ReadRecord{}, err
		}

		rec.Dirs = append(rec.Dirs, strandOf(entry) == StrandForward)
		rec.Refs = append(rec.Refs, refIDOf(entry))
	}

	return rec, nil
}

// ReadRecordKeepOri decodes a record whose header (bc, umi, na) has already
// been read via ReadRecordHeader, applying an orientation filter: if
// expected is StrandUnknown every alignment passes, otherwise only
// alignments whose strand matches expected are kept. Surviving refs are
// sorted ascending. The record may legally come back empty.
func ReadRecordKeepOri(r io.Reader, bc, umi uint64, na uint32, expected Strand) (ReadRecord, error) {
	rd := wire.NewReader(r)
	rec := ReadRecord{
		BC:   bc,
		UMI:  umi,
		Refs: make([]uint32, 0, na),
	}

	for i := uint32(0); i < na; i++ {
		entry, err := rd.ReadU32()
		if err != nil {
			return ReadRecord{}, err
		}

		strand := strandOf(entry)
		if expected == StrandUnknown || strand == expected {
			rec.Refs = append(rec.Refs, refIDOf(entry))
		}
	}

	slices.Sort(rec.Refs)

	return rec, nil
}

// PeekRecord returns the (bc, umi) of the first record encoded in buf
// without consuming it and without validating na. It is used to detect CB
// transitions at a chunk boundary from a raw byte buffer.
func PeekRecord(buf []byte, bct, umit format.RadIntID) (bc, umi uint64, err error) {
	rd := wire.NewReader(newSliceReader(buf))

	if _, err := rd.ReadU32(); err != nil {
		return 0, 0, err
	}

	bc, err = rd.ReadUint(bct)
	if err != nil {
		return 0, 0, err
	}

	umi, err = rd.ReadUint(umit)
	if err != nil {
		return 0, 0, err
	}

	return bc, umi, nil
}

type sliceReader struct {
	b []byte
}

func newSliceReader(b []byte) *sliceReader {
	return &sliceReader{b: b}
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if len(s.b) == 0 {
		return 0, io.EOF
	}

	n := copy(p, s.b)
	s.b = s.b[n:]

	return n, nil
}
