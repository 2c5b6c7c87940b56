// Package pathutil provides path manipulation for slash-separated archive paths.
package pathutil

import "strings"

// Split breaks a slash-separated archive path into its segments.
//
// Redundant separators, leading "./" markers as written by some tar
// implementations, and trailing slashes are dropped, so "./a//b/" yields
// ["a", "b"]. An empty or root path yields no segments.
func Split(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

// Join assembles segments back into a slash-separated path.
func Join(segments []string) string {
	return strings.Join(segments, "/")
}
