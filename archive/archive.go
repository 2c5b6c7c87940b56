// Package archive enumerates the contents of archive containers without
// extracting them to disk.
//
// Supported containers are directory trees, zip files, and tar files
// including gzip, bzip2, xz, and zstd compressed variants. Format detection
// is content-based: [Open] sniffs the source's magic bytes and only falls
// back to the file extension for pre-POSIX tars that carry no magic.
package archive

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Sentinel errors.
var (
	// ErrUnsupportedFormat is returned when a source matches no known container format.
	ErrUnsupportedFormat = errors.New("archive: unsupported format")

	// ErrCorruptArchive is returned when a matched container cannot be parsed.
	ErrCorruptArchive = errors.New("archive: corrupt archive")
)

// corruptf wraps an underlying parse failure with the offending source path.
func corruptf(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCorruptArchive, path, err)
}

// Entry is a single logical file or directory inside an archive.
type Entry struct {
	// Path is the entry's path as stored in the container, slash-separated.
	Path string

	// IsDir reports whether the entry is a directory. Directories carry no
	// content.
	IsDir bool

	open func() (io.ReadCloser, error)
}

// Open returns the entry's content stream. The stream is opened lazily and
// must be closed by the caller. For streaming containers (the tar variants)
// the stream is only valid until the enumeration advances to the next entry.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, fmt.Errorf("archive: entry %s has no content", e.Path)
	}
	return e.open()
}

// Reader enumerates the entries of one archive.
//
// Entries is single-pass and yields entries in container order. Once
// consumed, a second pass requires opening the source again with [Open].
type Reader interface {
	Entries() iter.Seq2[Entry, error]
	Close() error
}

type format uint8

const (
	formatUnknown format = iota
	formatDir
	formatZip
	formatTar
	formatTarGzip
	formatTarBzip2
	formatTarXz
	formatTarZstd
)

// Open opens the archive or directory at path and returns a Reader for it.
//
// It returns ErrUnsupportedFormat when the source matches no known container
// and ErrCorruptArchive when a matched container cannot be parsed.
func Open(path string) (Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return newDirReader(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	kind, err := sniffFormat(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}

	switch kind {
	case formatZip:
		return newZipReader(f, info.Size(), path)
	case formatTar, formatTarGzip, formatTarBzip2, formatTarXz, formatTarZstd:
		return newTarReader(f, kind, path)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// tar magic lives deep inside the first header block.
const tarMagicOffset = 257

var (
	zipMagic   = []byte("PK\x03\x04")
	zipEmpty   = []byte("PK\x05\x06")
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	tarMagic   = []byte("ustar")
)

// sniffFormat identifies the container format from the file's leading bytes.
// The read offset is rewound before returning.
func sniffFormat(f *os.File, path string) (format, error) {
	header := make([]byte, tarMagicOffset+len(tarMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return formatUnknown, err
	}
	header = header[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return formatUnknown, err
	}

	switch {
	case hasPrefix(header, zipMagic), hasPrefix(header, zipEmpty):
		return formatZip, nil
	case hasPrefix(header, gzipMagic):
		return formatTarGzip, nil
	case hasPrefix(header, bzip2Magic):
		return formatTarBzip2, nil
	case hasPrefix(header, xzMagic):
		return formatTarXz, nil
	case hasPrefix(header, zstdMagic):
		return formatTarZstd, nil
	case hasPrefix(header[min(tarMagicOffset, len(header)):], tarMagic):
		return formatTar, nil
	case strings.HasSuffix(strings.ToLower(path), ".tar"):
		// Pre-POSIX (V7) tars have no magic; trust the extension and let the
		// tar parser reject anything that is not one.
		return formatTar, nil
	default:
		return formatUnknown, nil
	}
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}

// entryReader classifies read failures from a container's decoder as
// corruption of the source archive.
type entryReader struct {
	r    io.Reader
	c    io.Closer // nil for streaming containers
	path string
}

func (er *entryReader) Read(p []byte) (int, error) {
	n, err := er.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = corruptf(er.path, err)
	}
	return n, err
}

func (er *entryReader) Close() error {
	if er.c == nil {
		return nil
	}
	return er.c.Close()
}
