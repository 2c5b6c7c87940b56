// Package archdiff compares the contents of two archives without extracting
// them to disk.
//
// An archive is a zip file, a tar file (plain or gzip, bzip2, xz, zstd
// compressed), or a directory tree. Each archive is reduced to an index
// mapping canonical identities to content hashes; the two indexes are then
// diffed to report which files are identical, which differ, and which exist
// on only one side.
//
// Identities are raw in-archive paths with the archive's common leading
// directory stripped, so a tree packaged under "myproj-1.2/" compares equal
// to the same tree packaged under "myproj-1.3/". Stripping can be disabled
// with [WithKeepPrefix].
//
// # Quick Start
//
//	result, err := archdiff.Diff(ctx, "release-v1.tar.gz", "release-v2.zip")
//	if err != nil {
//	    return err
//	}
//	result.WriteReport(os.Stdout, archdiff.ReportOptions{})
//
// Format adapters live in the archive subpackage; path helpers in
// internal/pathutil.
package archdiff
