package archdiff

import (
	"crypto"
	_ "crypto/md5" // link hash implementations into the binary
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"io"
	"slices"

	"github.com/opencontainers/go-digest"
)

// DefaultAlgorithm is the hash algorithm used when none is configured.
// MD5 is a content-equality check here, not a trust boundary.
const DefaultAlgorithm = "md5"

// hashAlgorithms maps algorithm names to their implementations. The map is
// process-wide immutable configuration, never mutated after initialization.
var hashAlgorithms = map[digest.Algorithm]crypto.Hash{
	"md5":         crypto.MD5,
	"sha1":        crypto.SHA1,
	digest.SHA256: crypto.SHA256,
	digest.SHA384: crypto.SHA384,
	digest.SHA512: crypto.SHA512,
}

// Algorithms returns the supported hash algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(hashAlgorithms))
	for alg := range hashAlgorithms {
		names = append(names, alg.String())
	}
	slices.Sort(names)
	return names
}

// LookupAlgorithm resolves name to a supported digest algorithm. It is
// called before any archive is opened so an unknown name fails without I/O.
func LookupAlgorithm(name string) (digest.Algorithm, error) {
	alg := digest.Algorithm(name)
	impl, ok := hashAlgorithms[alg]
	if !ok || !impl.Available() {
		return "", &UnsupportedAlgorithmError{Name: name, Valid: Algorithms()}
	}
	return alg, nil
}

// hashBufferSize is the chunk size for streaming content through a hasher.
const hashBufferSize = 32 * 1024

// digestContent folds the full content of r through alg in fixed-size
// chunks. Content is never materialized in memory at once.
func digestContent(alg digest.Algorithm, r io.Reader, buf []byte) (digest.Digest, error) {
	h := hashAlgorithms[alg].New()
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return digest.NewDigest(alg, h), nil
}
