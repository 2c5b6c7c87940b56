package archive

import (
	"archive/zip"
	"io"
	"iter"
	"os"
)

// zipReader enumerates the members of a zip container. Members support
// independent content streams, but callers still consume them one at a time
// per the Reader contract.
type zipReader struct {
	f    *os.File
	zr   *zip.Reader
	path string
}

func newZipReader(f *os.File, size int64, path string) (*zipReader, error) {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		f.Close()
		return nil, corruptf(path, err)
	}
	return &zipReader{f: f, zr: zr, path: path}, nil
}

func (r *zipReader) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, member := range r.zr.File {
			if member.FileInfo().IsDir() {
				if !yield(Entry{Path: trimDirSlash(member.Name), IsDir: true}, nil) {
					return
				}
				continue
			}
			entry := Entry{
				Path: member.Name,
				open: func() (io.ReadCloser, error) {
					rc, err := member.Open()
					if err != nil {
						return nil, corruptf(r.path, err)
					}
					return &entryReader{r: rc, c: rc, path: r.path}, nil
				},
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (r *zipReader) Close() error { return r.f.Close() }

func trimDirSlash(name string) string {
	if n := len(name); n > 0 && name[n-1] == '/' {
		return name[:n-1]
	}
	return name
}
