package collate

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/record"
	"github.com/stretchr/testify/require"
)

// rawRecords encodes a Chunk and strips its 8-byte chunk header, producing
// the bare concatenation of records the collate package's readers expect.
func rawRecords(t *testing.T, reads []record.ReadRecord, bct, umit format.RadIntID) []byte {
	t.Helper()

	c := &record.Chunk{Reads: reads}

	var buf bytes.Buffer

	_, err := c.WriteTo(&buf, bct, umit)
	require.NoError(t, err)

	return buf.Bytes()[8:]
}

func TestTwoPassCollator_Layout(t *testing.T) {
	const cbA, cbB = 0xA, 0xB

	reads := []record.ReadRecord{
		{BC: cbA, UMI: 1, Dirs: []bool{true}, Refs: []uint32{0}},
		{BC: cbB, UMI: 2, Dirs: []bool{true, false}, Refs: []uint32{0, 1}},
		{BC: cbA, UMI: 3, Dirs: []bool{true, false, true}, Refs: []uint32{0, 1, 2}},
		{BC: cbB, UMI: 4, Dirs: []bool{false}, Refs: []uint32{0}},
	}

	raw := rawRecords(t, reads, format.IntU32, format.IntU32)

	collator, err := NewTwoPassCollator(format.IntU32, format.IntU32)
	require.NoError(t, err)

	var out bytes.Buffer

	var mu sync.Mutex

	err = collator.Collate(bytes.NewReader(raw), uint32(len(reads)), &out, &mu)
	require.NoError(t, err)

	wantBytesA := record.RecordBytes(1, format.IntU32, format.IntU32) + record.RecordBytes(3, format.IntU32, format.IntU32)
	wantBytesB := record.RecordBytes(2, format.IntU32, format.IntU32) + record.RecordBytes(1, format.IntU32, format.IntU32)

	wantByBC := map[uint64]struct {
		nbytes uint32
		nrec   uint32
		umis   []uint64
	}{
		cbA: {nbytes: wantBytesA + chunkHeaderBytes, nrec: 2, umis: []uint64{1, 3}},
		cbB: {nbytes: wantBytesB + chunkHeaderBytes, nrec: 2, umis: []uint64{2, 4}},
	}

	buf := out.Bytes()
	require.Equal(t, int(wantBytesA+wantBytesB+2*chunkHeaderBytes), len(buf))

	var pos uint32

	seen := map[uint64]bool{}

	for pos < uint32(len(buf)) {
		nbytes := binary.LittleEndian.Uint32(buf[pos : pos+4])
		nrec := binary.LittleEndian.Uint32(buf[pos+4 : pos+8])

		body := bytes.NewReader(buf[pos+8 : pos+nbytes])

		var umis []uint64

		var bc uint64

		for i := uint32(0); i < nrec; i++ {
			rec, err := record.ReadFullRecord(body, format.IntU32, format.IntU32)
			require.NoError(t, err)

			bc = rec.BC
			umis = append(umis, rec.UMI)
		}

		want, ok := wantByBC[bc]
		require.True(t, ok, "unexpected barcode %d in output", bc)
		require.Equal(t, want.nbytes, nbytes)
		require.Equal(t, want.nrec, nrec)
		require.Equal(t, want.umis, umis)

		seen[bc] = true
		pos += nbytes
	}

	require.Len(t, seen, 2)
}

func TestTwoPassCollator_UnknownCellInPass2(t *testing.T) {
	reads := []record.ReadRecord{
		{BC: 7, UMI: 1, Dirs: []bool{true}, Refs: []uint32{0}},
	}
	raw := rawRecords(t, reads, format.IntU16, format.IntU8)

	collator, err := NewTwoPassCollator(format.IntU16, format.IntU8)
	require.NoError(t, err)

	cbInfo, total, err := collator.sizePass(bytes.NewReader(raw), 1)
	require.NoError(t, err)

	delete(cbInfo, 7)

	buf, release := collator.layout(cbInfo, total)
	defer release()

	err = collator.emitPass(bytes.NewReader(raw), 1, cbInfo, buf)
	require.ErrorIs(t, err, errs.ErrUnknownCellInPass2)
}

func TestTwoPassCollator_Compression(t *testing.T) {
	reads := []record.ReadRecord{
		{BC: 1, UMI: 1, Dirs: []bool{true}, Refs: []uint32{0}},
	}
	raw := rawRecords(t, reads, format.IntU32, format.IntU32)

	collator, err := NewTwoPassCollator(format.IntU32, format.IntU32, WithCompression(format.CompressionSnappyFrame))
	require.NoError(t, err)

	var out bytes.Buffer

	var mu sync.Mutex

	err = collator.Collate(bytes.NewReader(raw), 1, &out, &mu)
	require.NoError(t, err)
	require.NotEmpty(t, out.Bytes())
}
