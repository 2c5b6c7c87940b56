package archive

import (
	"archive/tar"
	"compress/bzip2"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// tarReader enumerates the members of a tar container, optionally behind a
// compression layer. Tar is a streaming format: only the current member's
// content is readable, and only until the enumeration advances.
type tarReader struct {
	f    *os.File
	dec  io.Closer // compression layer needing Close, nil otherwise
	tr   *tar.Reader
	path string
}

func newTarReader(f *os.File, kind format, path string) (*tarReader, error) {
	var (
		src io.Reader
		dec io.Closer
	)
	switch kind {
	case formatTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, corruptf(path, err)
		}
		src, dec = gz, gz
	case formatTarBzip2:
		src = bzip2.NewReader(f)
	case formatTarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, corruptf(path, err)
		}
		src = xr
	case formatTarZstd:
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, corruptf(path, err)
		}
		rc := zr.IOReadCloser()
		src, dec = rc, rc
	default:
		src = f
	}
	return &tarReader{f: f, dec: dec, tr: tar.NewReader(src), path: path}, nil
}

func (r *tarReader) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for {
			hdr, err := r.tr.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Entry{}, corruptf(r.path, err))
				return
			}

			switch hdr.Typeflag {
			case tar.TypeDir:
				if !yield(Entry{Path: trimDirSlash(hdr.Name), IsDir: true}, nil) {
					return
				}
			case tar.TypeReg:
				entry := Entry{
					Path: hdr.Name,
					open: func() (io.ReadCloser, error) {
						return &entryReader{r: r.tr, path: r.path}, nil
					},
				}
				if !yield(entry, nil) {
					return
				}
			default:
				// Links, fifos and devices carry no comparable content.
			}
		}
	}
}

func (r *tarReader) Close() error {
	var decErr error
	if r.dec != nil {
		decErr = r.dec.Close()
	}
	if err := r.f.Close(); err != nil {
		return err
	}
	return decErr
}
