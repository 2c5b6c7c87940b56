package archdiff

import (
	"context"
	"fmt"
	"slices"

	"github.com/meigma/archdiff/archive"
	"github.com/meigma/archdiff/internal/pathutil"
	"github.com/opencontainers/go-digest"
)

// IndexEntry records one file's content hash and its path as stored in the
// container.
type IndexEntry struct {
	RawPath string
	Hash    digest.Digest
}

// Index maps canonical identities to hashed entries for one archive.
//
// An Index is built in a single pass over the archive and is read-only
// afterwards. Directories are not indexed; they only participate in
// common-prefix detection.
type Index struct {
	// Source is the archive path the index was built from.
	Source string

	// Prefix is the detected common leading path, slash-joined, possibly
	// empty. It is detected even when stripping is suppressed.
	Prefix string

	entries map[string]IndexEntry
}

// Len returns the number of file entries in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Entry returns the indexed entry for the given identity.
func (ix *Index) Entry(id string) (IndexEntry, bool) {
	e, ok := ix.entries[id]
	return e, ok
}

// Identities returns all identities in the index, sorted.
func (ix *Index) Identities() []string {
	ids := make([]string, 0, len(ix.entries))
	for id := range ix.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// BuildIndex opens the archive at source and builds its index.
//
// The same options as [Diff] apply; the hash algorithm is validated before
// the archive is opened.
func BuildIndex(ctx context.Context, source string, opts ...DiffOption) (*Index, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	return indexArchive(ctx, source, cfg)
}

func indexArchive(ctx context.Context, source string, cfg diffConfig) (*Index, error) {
	r, err := archive.Open(source)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return buildIndex(ctx, r, source, cfg)
}

// buildIndex exhausts r exactly once, hashing each file entry as it is
// visited and buffering (raw path, hash) records. The common prefix is
// detected afterwards over the full path set, then identities are resolved.
func buildIndex(ctx context.Context, r archive.Reader, source string, cfg diffConfig) (*Index, error) {
	log := cfg.log()
	buf := make([]byte, hashBufferSize)

	var records []pathRecord
	for entry, err := range r.Entries() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir {
			records = append(records, pathRecord{rawPath: entry.Path, isDir: true})
			continue
		}

		hash, err := hashEntry(entry, cfg.algorithm, buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		records = append(records, pathRecord{rawPath: entry.Path, hash: hash})
	}

	prefix, err := detectPrefix(records, source)
	if err != nil {
		return nil, err
	}

	strip := len(prefix)
	if cfg.keepPrefix {
		strip = 0
	}

	entries := make(map[string]IndexEntry, len(records))
	for _, rec := range records {
		if rec.isDir {
			continue
		}
		id := identity(pathutil.Split(rec.rawPath), strip)
		if prev, ok := entries[id]; ok {
			return nil, &DuplicateIdentityError{
				Identity:   id,
				FirstPath:  prev.RawPath,
				SecondPath: rec.rawPath,
			}
		}
		entries[id] = IndexEntry{RawPath: rec.rawPath, Hash: rec.hash}
	}

	log.Debug("index built",
		"source", source,
		"entries", len(entries),
		"prefix", pathutil.Join(prefix))

	return &Index{
		Source:  source,
		Prefix:  pathutil.Join(prefix),
		entries: entries,
	}, nil
}

// hashEntry streams one entry's content through the configured algorithm.
// The content stream is fully consumed and closed before returning, which
// the streaming container formats require before the next entry is opened.
func hashEntry(entry archive.Entry, alg digest.Algorithm, buf []byte) (digest.Digest, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	hash, err := digestContent(alg, rc, buf)
	if closeErr := rc.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", entry.Path, err)
	}
	return hash, nil
}
