package collate

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/scrnaseq/radcollate/compress"
	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/internal/options"
	"github.com/scrnaseq/radcollate/internal/pool"
	"github.com/scrnaseq/radcollate/record"
	"github.com/scrnaseq/radcollate/wire"
)

// TempCellInfo is collation scratch: during pass 1 it accumulates the
// output size for one corrected barcode; during pass 2 Offset is
// repurposed as the write cursor for that barcode's records in the
// unified output buffer.
type TempCellInfo struct {
	Offset uint64
	NBytes uint32
	NRec   uint32
}

// TwoPassCollator rewrites a stream of arbitrarily-ordered, already-corrected
// records into one contiguous output chunk per barcode, all held in a single
// output buffer sized up front, by reading the input twice.
type TwoPassCollator struct {
	bct, umit         format.RadIntID
	codec             compress.Codec
	estRecordsPerCell int
}

// WithCompression configures the codec applied to the finished output
// buffer before it reaches the sink writer. Compression is off by default;
// calling this option turns it on.
func WithCompression(ct format.CompressionType) options.Option[*TwoPassCollator] {
	return options.New(func(t *TwoPassCollator) error {
		codec, err := compress.CreateCodec(ct, "two-pass collator output")
		if err != nil {
			return err
		}

		t.codec = codec

		return nil
	})
}

// WithEstimatedRecordsPerCell hints at the average number of records per
// distinct barcode, used only to presize the pass-1 scratch map.
func WithEstimatedRecordsPerCell(n int) options.Option[*TwoPassCollator] {
	return options.NoError(func(t *TwoPassCollator) { t.estRecordsPerCell = n })
}

// NewTwoPassCollator creates a collator for records whose barcode and UMI
// fields are encoded at the given widths.
func NewTwoPassCollator(bct, umit format.RadIntID, opts ...options.Option[*TwoPassCollator]) (*TwoPassCollator, error) {
	t := &TwoPassCollator{bct: bct, umit: umit, estRecordsPerCell: 1}

	if err := options.Apply(t, opts...); err != nil {
		return nil, err
	}

	return t, nil
}

// Collate reads nrec records from r (an io.ReadSeeker so pass 2 can rewind
// to the start), sizes each barcode's output region, lays out a single
// contiguous buffer, streams the alignment bytes into their assigned
// regions verbatim, and writes the result to w under writerMu.
func (t *TwoPassCollator) Collate(r io.ReadSeeker, nrec uint32, w io.Writer, writerMu *sync.Mutex) error {
	cbInfo, totalBytes, err := t.sizePass(r, nrec)
	if err != nil {
		return err
	}

	buf, release := t.layout(cbInfo, totalBytes)
	defer release()

	if err := t.emitPass(r, nrec, cbInfo, buf); err != nil {
		return err
	}

	out := buf

	if t.codec != nil {
		out, err = t.codec.Compress(buf)
		if err != nil {
			return err
		}
	}

	writerMu.Lock()
	_, err = w.Write(out)
	writerMu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}

// sizePass reads every record's header, discarding its alignment bytes, and
// accumulates the per-barcode byte/record counts that layout needs.
func (t *TwoPassCollator) sizePass(r io.Reader, nrec uint32) (map[uint64]*TempCellInfo, uint64, error) {
	capHint := 16
	if t.estRecordsPerCell > 0 {
		capHint = int(nrec)/t.estRecordsPerCell + 1
	}

	cbInfo := make(map[uint64]*TempCellInfo, capHint)

	var total uint64

	for i := uint32(0); i < nrec; i++ {
		bc, _, na, err := record.ReadRecordHeader(r, t.bct, t.umit)
		if err != nil {
			return nil, 0, err
		}

		if err := discardAlignments(r, na); err != nil {
			return nil, 0, err
		}

		recBytes := uint64(record.RecordBytes(na, t.bct, t.umit))

		info, ok := cbInfo[bc]
		if !ok {
			info = &TempCellInfo{}
			cbInfo[bc] = info
		}

		info.NBytes += uint32(recBytes)
		info.NRec++
		total += recBytes
	}

	return cbInfo, total, nil
}

// layout obtains a single output buffer from the region buffer pool, sized
// to hold every barcode's region, and assigns each barcode a contiguous
// span within it, writing that span's (nbytes, nrec) chunk header up
// front. Map iteration order determines region placement, which is
// arbitrary but stable for the duration of one call. The returned release
// func must be called once the buffer is no longer needed, returning it to
// the pool.
func (t *TwoPassCollator) layout(cbInfo map[uint64]*TempCellInfo, totalBytes uint64) (buf []byte, release func()) {
	requiredBytes := int(totalBytes) + len(cbInfo)*chunkHeaderBytes

	bb := pool.GetRegionBuffer()
	bb.ExtendOrGrow(requiredBytes)
	buf = bb.B

	var cursor uint64

	for _, info := range cbInfo {
		binary.LittleEndian.PutUint32(buf[cursor:cursor+4], info.NBytes+chunkHeaderBytes)
		binary.LittleEndian.PutUint32(buf[cursor+4:cursor+8], info.NRec)

		info.Offset = cursor + chunkHeaderBytes
		cursor += chunkHeaderBytes + uint64(info.NBytes)
	}

	return buf, func() { pool.PutRegionBuffer(bb) }
}

// emitPass rewinds r and streams each record's header and verbatim
// alignment bytes into its barcode's assigned region of buf, advancing that
// region's write cursor as it goes.
func (t *TwoPassCollator) emitPass(r io.ReadSeeker, nrec uint32, cbInfo map[uint64]*TempCellInfo, buf []byte) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	for i := uint32(0); i < nrec; i++ {
		bc, umi, na, err := record.ReadRecordHeader(r, t.bct, t.umit)
		if err != nil {
			return err
		}

		info, ok := cbInfo[bc]
		if !ok {
			return fmt.Errorf("%w: barcode %d", errs.ErrUnknownCellInPass2, bc)
		}

		cur := &bufCursor{buf: buf, pos: info.Offset}
		wr := wire.NewWriter(cur)

		if err := wr.WriteU32(na); err != nil {
			return err
		}

		if err := wr.WriteUint(t.bct, bc); err != nil {
			return err
		}

		if err := wr.WriteUint(t.umit, umi); err != nil {
			return err
		}

		alignBytes := make([]byte, 4*na)
		if _, err := io.ReadFull(r, alignBytes); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIO, err)
		}

		if _, err := cur.Write(alignBytes); err != nil {
			return err
		}

		info.Offset = cur.pos
	}

	return nil
}

// bufCursor is an io.Writer over a fixed-position window of a shared
// buffer, letting wire.Writer target an arbitrary offset inside it.
type bufCursor struct {
	buf []byte
	pos uint64
}

func (c *bufCursor) Write(p []byte) (int, error) {
	n := copy(c.buf[c.pos:], p)
	c.pos += uint64(n)

	if n != len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}
