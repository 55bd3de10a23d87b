package wire

import (
	"fmt"
	"io"
	"math"

	"github.com/scrnaseq/radcollate/endian"
	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
)

// Writer encodes RAD primitive values to an io.Writer, always little-endian.
type Writer struct {
	w      io.Writer
	engine endian.EndianEngine
	n      int64
	buf    [8]byte
}

// NewWriter wraps w for primitive encoding.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, engine: endian.GetLittleEndianEngine()}
}

// BytesWritten returns the total number of bytes successfully written to
// the underlying writer so far.
func (w *Writer) BytesWritten() int64 {
	return w.n
}

func (w *Writer) writeAll(b []byte) error {
	n, err := w.w.Write(b)
	w.n += int64(n)

	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) error {
	w.buf[0] = v
	return w.writeAll(w.buf[:1])
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) error {
	w.engine.PutUint16(w.buf[:2], v)
	return w.writeAll(w.buf[:2])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	w.engine.PutUint32(w.buf[:4], v)
	return w.writeAll(w.buf[:4])
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) error {
	w.engine.PutUint64(w.buf[:8], v)
	return w.writeAll(w.buf[:8])
}

// WriteUint writes v narrowed to the given integer width. Narrowing
// truncates the high bits silently; the caller is responsible for ensuring
// v fits in width. Returns errs.ErrUnknownTypeID for an unsupported width.
func (w *Writer) WriteUint(width format.RadIntID, v uint64) error {
	switch width {
	case format.IntU8:
		return w.WriteU8(uint8(v))
	case format.IntU16:
		return w.WriteU16(uint16(v))
	case format.IntU32:
		return w.WriteU32(uint32(v))
	case format.IntU64:
		return w.WriteU64(v)
	default:
		return errs.ErrUnknownTypeID
	}
}

// WriteF32 writes a little-endian IEEE 754 single-precision float.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes a little-endian IEEE 754 double-precision float.
func (w *Writer) WriteF64(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteTypeTag writes a single RAD type-tag byte.
func (w *Writer) WriteTypeTag(t format.RadType) error {
	return w.WriteU8(uint8(t))
}

// WriteString writes s as a length-prefixed UTF-8 string, the length prefix
// using the given integer width. This generalizes write_str_bin from a
// fixed u16 prefix to any RadIntID width.
func (w *Writer) WriteString(s string, width format.RadIntID) error {
	if err := w.WriteUint(width, uint64(len(s))); err != nil {
		return err
	}

	return w.writeAll([]byte(s))
}
