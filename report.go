package archdiff

import (
	"bufio"
	"fmt"
	"io"
)

// ReportOptions controls the rendered text report.
type ReportOptions struct {
	// SuppressCommon omits the identities present and equal in both archives.
	SuppressCommon bool
}

// WriteReport renders r as a human-readable text report: the detected
// prefixes (when nonempty), each partition as a headed identity list, and a
// per-state count summary.
func (r *Result) WriteReport(w io.Writer, opts ReportOptions) error {
	bw := bufio.NewWriter(w)

	if r.PrefixLeft != "" || r.PrefixRight != "" {
		fmt.Fprintf(bw, "Prefix left:  %s\n", r.PrefixLeft)
		fmt.Fprintf(bw, "Prefix right: %s\n", r.PrefixRight)
		fmt.Fprintln(bw)
	}

	writePartition(bw, "Only in left", r.OnlyLeft)
	writePartition(bw, "Only in right", r.OnlyRight)
	writePartition(bw, "Changed", r.Changed)
	if !opts.SuppressCommon {
		writePartition(bw, "Common", r.Common)
	}

	fmt.Fprintf(bw, "equal: %d  changed: %d  only-left: %d  only-right: %d\n",
		len(r.Common), len(r.Changed), len(r.OnlyLeft), len(r.OnlyRight))

	return bw.Flush()
}

func writePartition(w io.Writer, title string, identities []string) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(identities))
	for _, id := range identities {
		fmt.Fprintf(w, "  %s\n", id)
	}
	fmt.Fprintln(w)
}

// WriteSummary renders the quiet one-line form: nothing when the archives
// are identical and their prefixes agree, otherwise a single line of
// per-state counts.
func (r *Result) WriteSummary(w io.Writer) error {
	if r.Identical() && r.PrefixLeft == r.PrefixRight {
		return nil
	}
	prefix := "same"
	if r.PrefixLeft != r.PrefixRight {
		prefix = "diff"
	}
	_, err := fmt.Fprintf(w, "Different: prefix=%s e=%d d=%d ol=%d or=%d\n",
		prefix, len(r.Common), len(r.Changed), len(r.OnlyLeft), len(r.OnlyRight))
	return err
}
