package barcode

import (
	"strings"
	"testing"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/stretchr/testify/require"
)

func TestEncode2Bit(t *testing.T) {
	tests := []struct {
		seq  string
		want uint64
	}{
		{"AAAA", 0x00},
		{"AACG", 0x06},
		{"ACAA", 0x10},
		{"TTTT", 0xFF},
	}

	for _, tt := range tests {
		v, ok := Encode2Bit(tt.seq)
		require.True(t, ok)
		require.Equal(t, tt.want, v, tt.seq)
	}
}

func TestEncode2Bit_RejectsNonACGT(t *testing.T) {
	_, ok := Encode2Bit("AANA")
	require.False(t, ok)
}

func TestLoadPermitList(t *testing.T) {
	r := strings.NewReader("AAAA\nAACG\nACAA\nTTTT\n")

	kv, err := LoadPermitList(r, 4)
	require.NoError(t, err)
	require.Equal(t, []uint64{0x00, 0x06, 0x10, 0xFF}, kv)
}

func TestLoadPermitList_WrongLength(t *testing.T) {
	r := strings.NewReader("AAAAA\n")

	_, err := LoadPermitList(r, 4)
	require.ErrorIs(t, err, errs.ErrBarcodeLineLength)
}

func TestLoadPermitList_BadChar(t *testing.T) {
	r := strings.NewReader("AANA\n")

	_, err := LoadPermitList(r, 4)
	require.ErrorIs(t, err, errs.ErrBarcodeLineChar)
}

func TestPermitListFromThreshold(t *testing.T) {
	hist := map[uint64]uint64{
		0x00: 10,
		0x06: 1,
		0x10: 5,
	}

	out := PermitListFromThreshold(hist, 5)
	require.Equal(t, []uint64{0x00, 0x10}, out)
}

func mustEncode(t *testing.T, seq string) uint64 {
	t.Helper()

	v, ok := Encode2Bit(seq)
	require.True(t, ok)

	return v
}

func TestBarcodeLookupMap_PrefixTableConstruction(t *testing.T) {
	kv := []uint64{
		mustEncode(t, "AAAA"),
		mustEncode(t, "AACG"),
		mustEncode(t, "ACAA"),
		mustEncode(t, "TTTT"),
	}

	m := NewBarcodeLookupMap(kv, 4)
	require.NoError(t, m.CheckInvariants())

	require.Equal(t, 0, m.offsets[0])
	require.Equal(t, 2, m.offsets[1])
	require.Equal(t, 3, m.offsets[15])
	require.Equal(t, 4, m.offsets[16])
}

func TestBarcodeLookupMap_FindExact_EveryPermitMember(t *testing.T) {
	kv := []uint64{
		mustEncode(t, "AAAA"),
		mustEncode(t, "AACG"),
		mustEncode(t, "ACAA"),
		mustEncode(t, "TTTT"),
	}

	m := NewBarcodeLookupMap(kv, 4)

	for _, b := range kv {
		idx, found := m.FindExact(b)
		require.True(t, found)
		require.Equal(t, b, m.Barcodes[idx])
	}
}

func TestBarcodeLookupMap_FindExact_Miss(t *testing.T) {
	kv := []uint64{mustEncode(t, "AAAA"), mustEncode(t, "TTTT")}
	m := NewBarcodeLookupMap(kv, 4)

	_, found := m.FindExact(mustEncode(t, "CCCC"))
	require.False(t, found)
}

func TestBarcodeLookupMap_FindNeighbors_Unique(t *testing.T) {
	kv := []uint64{mustEncode(t, "AAAA"), mustEncode(t, "TTTT")}
	m := NewBarcodeLookupMap(kv, 4)

	query := mustEncode(t, "AAAT")

	idx, count := m.FindNeighbors(query, true)
	require.Equal(t, 1, count)
	require.Equal(t, mustEncode(t, "AAAA"), m.Barcodes[idx])
}

func TestBarcodeLookupMap_FindNeighbors_Ambiguous(t *testing.T) {
	kv := []uint64{
		mustEncode(t, "AAAA"),
		mustEncode(t, "AAAT"),
		mustEncode(t, "AATA"),
		mustEncode(t, "ATAA"),
		mustEncode(t, "TAAA"),
	}

	m := NewBarcodeLookupMap(kv, 4)

	query := mustEncode(t, "AAAA")

	_, count := m.FindNeighbors(query, false)
	require.Equal(t, 2, count)
}

func TestBarcodeLookupMap_FindNeighbors_NoMatch(t *testing.T) {
	kv := []uint64{mustEncode(t, "GGGG")}
	m := NewBarcodeLookupMap(kv, 4)

	idx, count := m.FindNeighbors(mustEncode(t, "AAAA"), true)
	require.Equal(t, 0, count)
	require.Equal(t, -1, idx)
}

func TestBarcodeLookupMap_FindNeighbors_ExactShortCircuits(t *testing.T) {
	kv := []uint64{mustEncode(t, "AAAA"), mustEncode(t, "AAAT")}
	m := NewBarcodeLookupMap(kv, 4)

	idx, count := m.FindNeighbors(mustEncode(t, "AAAA"), true)
	require.Equal(t, 1, count)
	require.Equal(t, mustEncode(t, "AAAA"), m.Barcodes[idx])
}

func TestBarcodeLookupMap_OffsetsInvariant(t *testing.T) {
	kv := make([]uint64, 0, 64)
	for i := uint64(0); i < 64; i++ {
		kv = append(kv, i)
	}

	m := NewBarcodeLookupMap(kv, 6)
	require.NoError(t, m.CheckInvariants())
}
