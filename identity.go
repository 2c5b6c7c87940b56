package archdiff

import (
	"fmt"

	"github.com/meigma/archdiff/archive"
	"github.com/meigma/archdiff/internal/pathutil"
	"github.com/opencontainers/go-digest"
)

// pathRecord buffers one enumerated entry's raw path and content hash so
// identities can be resolved after the whole archive has been seen. Content
// is read exactly once; only these small records are retained.
type pathRecord struct {
	rawPath string
	isDir   bool
	hash    digest.Digest
}

// prefixNode is one segment of the path tree used for prefix detection.
type prefixNode struct {
	children map[string]*prefixNode
	isFile   bool
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[string]*prefixNode)}
}

// detectPrefix computes the longest leading segment sequence shared by every
// entry of one archive.
//
// Entries are laid out as a tree: directory records contribute their full
// path, file records their containing directories with the file name as a
// leaf. The prefix is the chain of segments descended while each node has
// exactly one child and that child is a directory. A file leaf stops the
// descent, so an archive holding a single file still reports the file's own
// containing directories as common. An empty archive yields no prefix.
func detectPrefix(records []pathRecord, source string) ([]string, error) {
	root := newPrefixNode()
	hasFiles := false
	for _, rec := range records {
		segments := pathutil.Split(rec.rawPath)
		dirs := segments
		if !rec.isDir {
			if len(segments) == 0 {
				continue
			}
			dirs = segments[:len(segments)-1]
		}

		node := root
		for i, segment := range dirs {
			child := node.children[segment]
			if child == nil {
				child = newPrefixNode()
				node.children[segment] = child
			}
			if child.isFile {
				return nil, fmt.Errorf("%w: %s: path %q used as both file and directory",
					archive.ErrCorruptArchive, source, pathutil.Join(segments[:i+1]))
			}
			node = child
		}

		if !rec.isDir {
			name := segments[len(segments)-1]
			child := node.children[name]
			if child == nil {
				child = newPrefixNode()
				node.children[name] = child
			}
			if len(child.children) > 0 {
				return nil, fmt.Errorf("%w: %s: path %q used as both file and directory",
					archive.ErrCorruptArchive, source, rec.rawPath)
			}
			child.isFile = true
			hasFiles = true
		}
	}

	// An archive without file entries has no prefix worth reporting.
	if !hasFiles {
		return nil, nil
	}

	var prefix []string
	node := root
	for len(node.children) == 1 {
		var name string
		var child *prefixNode
		for n, c := range node.children {
			name, child = n, c
		}
		if child.isFile {
			break
		}
		prefix = append(prefix, name)
		node = child
	}
	return prefix, nil
}

// identity derives the canonical identity for a file's path segments given
// the number of common prefix segments to strip.
func identity(segments []string, strip int) string {
	if strip >= len(segments) {
		return ""
	}
	return pathutil.Join(segments[strip:])
}
