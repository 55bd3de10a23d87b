package shard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempBucket_FlushAndClose(t *testing.T) {
	dir := t.TempDir()

	b, err := NewTempBucket(3, dir)
	require.NoError(t, err)
	require.Equal(t, uint32(3), b.BucketID)
	require.FileExists(t, filepath.Join(dir, "bucket_3.tmp"))

	require.NoError(t, b.Flush([]byte("hello")))
	require.NoError(t, b.Flush([]byte("world")))
	require.NoError(t, b.Close())

	got, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	require.Equal(t, "helloworld", string(got))
}

func TestTempBucket_FlushEmptyIsNoop(t *testing.T) {
	dir := t.TempDir()

	b, err := NewTempBucket(0, dir)
	require.NoError(t, err)
	require.NoError(t, b.Flush(nil))
	require.NoError(t, b.Close())

	got, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	require.Empty(t, got)
}
