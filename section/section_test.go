package section

import (
	"bytes"
	"testing"

	"github.com/scrnaseq/radcollate/format"
	"github.com/stretchr/testify/require"
)

func TestRadHeader_RoundTrip(t *testing.T) {
	original := RadHeader{
		IsPaired:  0,
		RefNames:  []string{"chr1", "chr2"},
		NumChunks: 1,
	}

	var buf bytes.Buffer
	n, err := original.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)

	var parsed RadHeader
	nRead, err := parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, n, nRead)

	require.Equal(t, original.IsPaired, parsed.IsPaired)
	require.Equal(t, uint64(len(original.RefNames)), parsed.RefCount)
	require.Equal(t, original.RefNames, parsed.RefNames)
	require.Equal(t, original.NumChunks, parsed.NumChunks)
}

func TestRadHeader_EmptyRefNames(t *testing.T) {
	original := RadHeader{IsPaired: 1, NumChunks: 0}

	var buf bytes.Buffer
	_, err := original.WriteTo(&buf)
	require.NoError(t, err)

	var parsed RadHeader
	_, err = parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(0), parsed.RefCount)
	require.Empty(t, parsed.RefNames)
}

func TestFileTags_RoundTrip(t *testing.T) {
	original := FileTags{BCLen: 16, UMILen: 12}

	var buf bytes.Buffer
	_, err := original.WriteTo(&buf)
	require.NoError(t, err)

	var parsed FileTags
	_, err = parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestTagDesc_RoundTrip(t *testing.T) {
	original := TagDesc{Name: "corrected_bc", TypeID: format.TypeU32}

	var buf bytes.Buffer
	_, err := original.WriteTo(&buf)
	require.NoError(t, err)

	var parsed TagDesc
	_, err = parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestTagSection_RoundTrip(t *testing.T) {
	original := TagSection{
		Tags: []TagDesc{
			{Name: "barcode", TypeID: format.TypeU64},
			{Name: "umi", TypeID: format.TypeU32},
			{Name: "is_mapped", TypeID: format.TypeBool},
		},
	}

	var buf bytes.Buffer
	_, err := original.WriteTo(&buf)
	require.NoError(t, err)

	var parsed TagSection
	_, err = parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestTagSection_Empty(t *testing.T) {
	original := TagSection{}

	var buf bytes.Buffer
	_, err := original.WriteTo(&buf)
	require.NoError(t, err)

	var parsed TagSection
	_, err = parsed.ReadFrom(&buf)
	require.NoError(t, err)
	require.Empty(t, parsed.Tags)
}
