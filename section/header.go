// Package section implements the RAD file header, file-tag block, and
// typed tag section: the parts of a RAD file parsed once at open time and
// held immutable for the life of the file.
package section

import (
	"io"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/wire"
)

// RadHeader is the fixed leading section of a RAD file: pairing flag,
// reference name table, and chunk count.
type RadHeader struct {
	IsPaired  uint8
	RefCount  uint64
	RefNames  []string
	NumChunks uint64
}

// ReadFrom reads a RadHeader from r: is_paired (u8), ref_count (u64), then
// ref_count length-u16-prefixed UTF-8 names, then num_chunks (u64).
func (h *RadHeader) ReadFrom(r io.Reader) (int64, error) {
	rd := wire.NewReader(r)

	isPaired, err := rd.ReadU8()
	if err != nil {
		return rd.BytesRead(), err
	}

	refCount, err := rd.ReadU64()
	if err != nil {
		return rd.BytesRead(), err
	}

	names := make([]string, 0, refCount)
	for i := uint64(0); i < refCount; i++ {
		name, err := rd.ReadString(format.IntU16)
		if err != nil {
			return rd.BytesRead(), err
		}

		names = append(names, name)
	}

	numChunks, err := rd.ReadU64()
	if err != nil {
		return rd.BytesRead(), err
	}

	h.IsPaired = isPaired
	h.RefCount = refCount
	h.RefNames = names
	h.NumChunks = numChunks

	return rd.BytesRead(), nil
}

// WriteTo writes h to w in the layout ReadFrom expects. RefCount is
// recomputed from len(RefNames) rather than trusted from the struct field,
// so callers never have to keep the two in sync by hand.
func (h *RadHeader) WriteTo(w io.Writer) (int64, error) {
	wr := wire.NewWriter(w)

	if err := wr.WriteU8(h.IsPaired); err != nil {
		return wr.BytesWritten(), err
	}

	refCount := uint64(len(h.RefNames))
	if err := wr.WriteU64(refCount); err != nil {
		return wr.BytesWritten(), err
	}

	for _, name := range h.RefNames {
		if len(name) > 0xFFFF {
			return wr.BytesWritten(), errs.ErrMalformedHeader
		}

		if err := wr.WriteString(name, format.IntU16); err != nil {
			return wr.BytesWritten(), err
		}
	}

	if err := wr.WriteU64(h.NumChunks); err != nil {
		return wr.BytesWritten(), err
	}

	return wr.BytesWritten(), nil
}

// FileTags is the file-level block giving the nucleotide length of every
// barcode and UMI encoded in the file.
type FileTags struct {
	BCLen  uint16
	UMILen uint16
}

// ReadFrom reads bclen and umilen (two little-endian u16 values).
func (t *FileTags) ReadFrom(r io.Reader) (int64, error) {
	rd := wire.NewReader(r)

	bclen, err := rd.ReadU16()
	if err != nil {
		return rd.BytesRead(), err
	}

	umilen, err := rd.ReadU16()
	if err != nil {
		return rd.BytesRead(), err
	}

	t.BCLen = bclen
	t.UMILen = umilen

	return rd.BytesRead(), nil
}

// WriteTo writes bclen and umilen.
func (t *FileTags) WriteTo(w io.Writer) (int64, error) {
	wr := wire.NewWriter(w)

	if err := wr.WriteU16(t.BCLen); err != nil {
		return wr.BytesWritten(), err
	}

	if err := wr.WriteU16(t.UMILen); err != nil {
		return wr.BytesWritten(), err
	}

	return wr.BytesWritten(), nil
}
