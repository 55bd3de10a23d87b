package record

import (
	"io"

	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/wire"
)

// Chunk is the unit of RAD file I/O: a byte/record count header followed by
// nrec ReadRecords.
type Chunk struct {
	NBytes uint32
	NRec   uint32
	Reads  []ReadRecord
}

// RecordBytes returns the number of bytes a single encoded record with na
// alignments occupies on the wire: na (u32) + bc + umi + na*4 alignment
// entries.
func RecordBytes(na uint32, bct, umit format.RadIntID) uint32 {
	return 4 + uint32(bct.BytesForType()) + uint32(umit.BytesForType()) + 4*na
}

// ReadChunkHeader reads (nbytes, nrec) from the front of a chunk.
func ReadChunkHeader(r io.Reader) (nbytes, nrec uint32, err error) {
	rd := wire.NewReader(r)

	nbytes, err = rd.ReadU32()
	if err != nil {
		return 0, 0, err
	}

	nrec, err = rd.ReadU32()
	if err != nil {
		return 0, 0, err
	}

	return nbytes, nrec, nil
}

// ReadChunk decodes a complete chunk: header plus all nrec records,
// unfiltered.
func ReadChunk(r io.Reader, bct, umit format.RadIntID) (*Chunk, error) {
	nbytes, nrec, err := ReadChunkHeader(r)
	if err != nil {
		return nil, err
	}

	c := &Chunk{
		NBytes: nbytes,
		NRec:   nrec,
		Reads:  make([]ReadRecord, 0, nrec),
	}

	for i := uint32(0); i < nrec; i++ {
		rec, err := ReadFullRecord(r, bct, umit)
		if err != nil {
			return nil, err
		}

		c.Reads = append(c.Reads, rec)
	}

	return c, nil
}

// WriteTo encodes the chunk, recomputing NBytes/NRec from len(Reads) rather
// than trusting the struct fields.
func (c *Chunk) WriteTo(w io.Writer, bct, umit format.RadIntID) (int64, error) {
	nbytes := uint32(8)
	for _, rec := range c.Reads {
		nbytes += RecordBytes(uint32(len(rec.Refs)), bct, umit)
	}

	wr := wire.NewWriter(w)
	if err := wr.WriteU32(nbytes); err != nil {
		return wr.BytesWritten(), err
	}

	if err := wr.WriteU32(uint32(len(c.Reads))); err != nil {
		return wr.BytesWritten(), err
	}

	for _, rec := range c.Reads {
		if err := wr.WriteU32(uint32(len(rec.Refs))); err != nil {
			return wr.BytesWritten(), err
		}

		if err := wr.WriteUint(bct, rec.BC); err != nil {
			return wr.BytesWritten(), err
		}

		if err := wr.WriteUint(umit, rec.UMI); err != nil {
			return wr.BytesWritten(), err
		}

		for i, refID := range rec.Refs {
			strand := StrandReverse
			if i < len(rec.Dirs) && rec.Dirs[i] {
				strand = StrandForward
			}

			if err := wr.WriteU32(encodeEntry(refID, strand)); err != nil {
				return wr.BytesWritten(), err
			}
		}
	}

	return wr.BytesWritten(), nil
}
