package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/adapters/fs"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestOracle_Exists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o600))

	oracle := fs.NewOracle()

	ok, err := oracle.Exists(present)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = oracle.Exists(filepath.Join(dir, "absent.txt"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = oracle.Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok, "directories count as existing targets")
}

func TestOracle_ModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, want, want))

	got, err := fs.NewOracle().ModTime(path)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got %v, want %v", got, want)
}

func TestOracle_ModTime_NotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	oracle := fs.NewOracle()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, os.Chtimes(path, first, first))
	got, err := oracle.ModTime(path)
	require.NoError(t, err)
	assert.True(t, first.Equal(got))

	require.NoError(t, os.Chtimes(path, second, second))
	got, err = oracle.ModTime(path)
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestOracle_ModTime_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := fs.NewOracle().ModTime(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStatFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, path, zErr.Metadata()["path"])
}

func TestOracle_Exists_StatFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "file"), []byte("x"), 0o600))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o700) }) //nolint:gosec // Restore for cleanup

	_, err := fs.NewOracle().Exists(filepath.Join(locked, "file"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStatFailed)
}
