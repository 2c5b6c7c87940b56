package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/archdiff/internal/archtest"
)

type collected struct {
	path  string
	isDir bool
	data  string
}

// collect exhausts the reader, reading each file entry's content during the
// pass as the single-open-stream contract requires.
func collect(t *testing.T, r Reader) []collected {
	t.Helper()
	var out []collected
	for entry, err := range r.Entries() {
		require.NoError(t, err)
		if entry.IsDir {
			out = append(out, collected{path: entry.Path, isDir: true})
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out = append(out, collected{path: entry.Path, data: string(data)})
	}
	return out
}

func files(entries []collected) map[string]string {
	m := make(map[string]string)
	for _, e := range entries {
		if !e.isDir {
			m[e.path] = e.data
		}
	}
	return m
}

var testTree = archtest.Tree{
	"root/a.txt":     "alpha\n",
	"root/sub/b.txt": "beta\n",
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(root, 0o755))
	archtest.WriteDir(t, root, archtest.Tree{
		"a.txt":     "alpha\n",
		"sub/b.txt": "beta\n",
	})

	r, err := Open(root)
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	assert.Equal(t, map[string]string{
		"src/a.txt":     "alpha\n",
		"src/sub/b.txt": "beta\n",
	}, files(entries))

	// The walk reports the root directory itself so its name can take part
	// in prefix detection.
	var dirs []string
	for _, e := range entries {
		if e.isDir {
			dirs = append(dirs, e.path)
		}
	}
	assert.Contains(t, dirs, "src")
	assert.Contains(t, dirs, "src/sub")
}

func TestOpenZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.zip")
	archtest.WriteZip(t, path, testTree)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, map[string]string(testTree), files(collect(t, r)))
}

func TestOpenTarVariants(t *testing.T) {
	tests := []struct {
		name string
		comp archtest.Compression
	}{
		{"plain", archtest.CompressNone},
		{"gzip", archtest.CompressGzip},
		{"xz", archtest.CompressXz},
		{"zstd", archtest.CompressZstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.tar."+string(tt.comp))
			archtest.WriteTar(t, path, tt.comp, testTree)

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, map[string]string(testTree), files(collect(t, r)))
		})
	}
}

func TestOpenBzip2Fixture(t *testing.T) {
	r, err := Open(filepath.Join("testdata", "fixture.tar.bz2"))
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	assert.Equal(t, map[string]string{
		"fixture/a.txt":     "alpha\n",
		"fixture/sub/b.txt": "beta\n",
	}, files(entries))

	var dirs []string
	for _, e := range entries {
		if e.isDir {
			dirs = append(dirs, e.path)
		}
	}
	assert.ElementsMatch(t, []string{"fixture", "fixture/sub"}, dirs)
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text, not an archive\n"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), path)
}

func TestOpenCorruptZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04 definitely not a zip body"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrCorruptArchive)
	assert.Contains(t, err.Error(), path)
}

func TestOpenCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0xff, 0x00, 0x01}, 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrCorruptArchive)
}

func TestOpenCompressedNonTar(t *testing.T) {
	// A valid gzip stream whose payload is not a tar: the adapter matches,
	// then fails mid-parse.
	path := filepath.Join(t.TempDir(), "payload.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gzipWrite(t, f, []byte("plain text payload, no tar header here"))
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var enumErr error
	for _, err := range r.Entries() {
		if err != nil {
			enumErr = err
			break
		}
	}
	require.ErrorIs(t, enumErr, ErrCorruptArchive)
}

func gzipWrite(t *testing.T, w io.Writer, data []byte) {
	t.Helper()
	gz := gzip.NewWriter(w)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
}

func TestOpenMissingSource(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		ext    string
		want   format
	}{
		{"zip", []byte("PK\x03\x04rest"), "a.zip", formatZip},
		{"empty zip", []byte("PK\x05\x06rest"), "a.zip", formatZip},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, "a.tgz", formatTarGzip},
		{"bzip2", []byte("BZh91AY"), "a.tar.bz2", formatTarBzip2},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, "a.tar.xz", formatTarXz},
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd}, "a.tar.zst", formatTarZstd},
		{"v7 tar by extension", make([]byte, 512), "old.tar", formatTar},
		{"unknown", []byte("hello world"), "notes.txt", formatUnknown},
		{"empty file", nil, "empty.bin", formatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.ext)
			require.NoError(t, os.WriteFile(path, tt.header, 0o644))
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			got, err := sniffFormat(f, path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The offset must be rewound for the adapter.
			pos, err := f.Seek(0, io.SeekCurrent)
			require.NoError(t, err)
			assert.Zero(t, pos)
		})
	}
}

func TestSniffUstarMagic(t *testing.T) {
	header := make([]byte, 512)
	copy(header[tarMagicOffset:], "ustar")
	path := filepath.Join(t.TempDir(), "noext")
	require.NoError(t, os.WriteFile(path, header, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := sniffFormat(f, path)
	require.NoError(t, err)
	assert.Equal(t, formatTar, got)
}
