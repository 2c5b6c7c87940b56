package archive

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// dirReader treats a directory tree as an archive. Raw paths are relative to
// the directory's parent so the root directory's own name participates in
// common-prefix detection, matching how most archives wrap their content in
// a single top-level directory.
type dirReader struct {
	root string
}

func newDirReader(path string) (*dirReader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &dirReader{root: abs}, nil
}

func (r *dirReader) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		base := filepath.Dir(r.root)
		err := filepath.WalkDir(r.root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			rel, relErr := filepath.Rel(base, p)
			if relErr != nil {
				return relErr
			}
			raw := filepath.ToSlash(rel)

			if d.IsDir() {
				if !yield(Entry{Path: raw, IsDir: true}, nil) {
					return fs.SkipAll
				}
				return nil
			}
			if !d.Type().IsRegular() {
				// Symlinks, sockets and devices carry no comparable content.
				return nil
			}
			entry := Entry{
				Path: raw,
				open: func() (io.ReadCloser, error) { return os.Open(p) },
			}
			if !yield(entry, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.SkipAll) {
			yield(Entry{}, err)
		}
	}
}

func (r *dirReader) Close() error { return nil }
