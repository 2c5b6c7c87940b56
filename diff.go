package archdiff

import "slices"

// Result is the classified comparison of two archive indexes. The four
// partitions are disjoint and keyed by identity; each is sorted
// lexicographically for deterministic output.
type Result struct {
	// OnlyLeft lists identities present only in the left archive.
	OnlyLeft []string

	// OnlyRight lists identities present only in the right archive.
	OnlyRight []string

	// Common lists identities present in both archives with equal content.
	Common []string

	// Changed lists identities present in both archives with differing
	// content.
	Changed []string

	// PrefixLeft and PrefixRight are the detected common prefixes of the two
	// archives, possibly empty.
	PrefixLeft  string
	PrefixRight string
}

// Identical reports whether both archives held the same files with the same
// content.
func (r *Result) Identical() bool {
	return len(r.OnlyLeft) == 0 && len(r.OnlyRight) == 0 && len(r.Changed) == 0
}

// Compare classifies every identity of the two indexes. It is a pure
// function of its inputs: no I/O, no randomness, output order is
// lexicographic by identity.
func Compare(left, right *Index) *Result {
	res := &Result{
		PrefixLeft:  left.Prefix,
		PrefixRight: right.Prefix,
	}

	for id, le := range left.entries {
		re, ok := right.entries[id]
		switch {
		case !ok:
			res.OnlyLeft = append(res.OnlyLeft, id)
		case le.Hash == re.Hash:
			res.Common = append(res.Common, id)
		default:
			res.Changed = append(res.Changed, id)
		}
	}
	for id := range right.entries {
		if _, ok := left.entries[id]; !ok {
			res.OnlyRight = append(res.OnlyRight, id)
		}
	}

	slices.Sort(res.OnlyLeft)
	slices.Sort(res.OnlyRight)
	slices.Sort(res.Common)
	slices.Sort(res.Changed)
	return res
}
