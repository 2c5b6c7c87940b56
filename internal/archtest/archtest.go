// Package archtest builds small archive files for tests.
package archtest

import (
	"archive/tar"
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Tree maps slash-separated relative paths to file contents.
type Tree map[string]string

// sortedPaths returns the tree's paths in lexicographic order so generated
// archives are deterministic.
func sortedPaths(tree Tree) []string {
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// WriteDir materializes the tree under dir, creating parents as needed.
func WriteDir(t *testing.T, dir string, tree Tree) {
	t.Helper()
	for _, p := range sortedPaths(tree) {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(tree[p]), 0o644))
	}
}

// WriteZip writes the tree as a zip archive at path.
func WriteZip(t *testing.T, path string, tree Tree) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, p := range sortedPaths(tree) {
		w, err := zw.Create(p)
		require.NoError(t, err)
		_, err = w.Write([]byte(tree[p]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// Compression selects the compression layer for WriteTar.
type Compression string

const (
	CompressNone Compression = ""
	CompressGzip Compression = "gz"
	CompressXz   Compression = "xz"
	CompressZstd Compression = "zst"
)

// WriteTar writes the tree as a tar archive at path with the given
// compression layer.
func WriteTar(t *testing.T, path string, comp Compression, tree Tree) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var tw *tar.Writer
	switch comp {
	case CompressGzip:
		gz := gzip.NewWriter(f)
		defer func() { require.NoError(t, gz.Close()) }()
		tw = tar.NewWriter(gz)
	case CompressXz:
		xw, err := xz.NewWriter(f)
		require.NoError(t, err)
		defer func() { require.NoError(t, xw.Close()) }()
		tw = tar.NewWriter(xw)
	case CompressZstd:
		zw, err := zstd.NewWriter(f)
		require.NoError(t, err)
		defer func() { require.NoError(t, zw.Close()) }()
		tw = tar.NewWriter(zw)
	default:
		tw = tar.NewWriter(f)
	}

	for _, p := range sortedPaths(tree) {
		content := tree[p]
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     p,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
}
