package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileLimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	data, err := ReadFileLimited(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestReadFileLimitedAtExactLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exact.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	data, err := ReadFileLimited(path, 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))
}

func TestReadFileLimitedRejectsOversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	_, err := ReadFileLimited(path, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
}

func TestReadFileLimitedMissingFile(t *testing.T) {
	_, err := ReadFileLimited(filepath.Join(t.TempDir(), "missing"), 10)
	assert.True(t, os.IsNotExist(err))
}

func TestAtomicWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, AtomicWriteFile(path, []byte("report"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))

	// Overwrite works and leaves no temp files behind
	require.NoError(t, AtomicWriteFile(path, []byte("updated"), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
