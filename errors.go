package archdiff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meigma/archdiff/archive"
)

// Errors re-exported from archive.
var (
	// ErrUnsupportedFormat is returned when a source matches no known container format.
	ErrUnsupportedFormat = archive.ErrUnsupportedFormat

	// ErrCorruptArchive is returned when a matched container cannot be parsed.
	ErrCorruptArchive = archive.ErrCorruptArchive
)

// Sentinel errors.
var (
	// ErrUnsupportedAlgorithm is returned when a hash algorithm name has no
	// registered implementation.
	ErrUnsupportedAlgorithm = errors.New("archdiff: unsupported hash algorithm")

	// ErrDuplicateIdentity is returned when two entries of one archive
	// normalize to the same identity.
	ErrDuplicateIdentity = errors.New("archdiff: duplicate identity")
)

// UnsupportedAlgorithmError reports a requested hash algorithm that is not
// registered. It matches ErrUnsupportedAlgorithm under errors.Is.
type UnsupportedAlgorithmError struct {
	// Name is the requested algorithm name.
	Name string

	// Valid lists the registered algorithm names, sorted.
	Valid []string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("archdiff: unsupported hash algorithm %q (supported: %s)",
		e.Name, strings.Join(e.Valid, ", "))
}

func (e *UnsupportedAlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}

// DuplicateIdentityError reports two entries of one archive normalizing to
// the same identity. It signals a corrupt or adversarial archive; container
// formats guarantee path uniqueness, so this cannot occur for honest inputs.
// It matches ErrDuplicateIdentity under errors.Is.
type DuplicateIdentityError struct {
	// Identity is the shared canonical identity.
	Identity string

	// FirstPath and SecondPath are the colliding raw in-archive paths.
	FirstPath  string
	SecondPath string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("archdiff: duplicate identity %q (paths %q and %q)",
		e.Identity, e.FirstPath, e.SecondPath)
}

func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}
