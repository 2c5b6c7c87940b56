package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/archdiff"
)

type rootOpts struct {
	keepPrefix     bool
	suppressCommon bool
	hashAlgorithm  string
	quiet          bool
	verbose        bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "archdiff FILE_1 FILE_2",
		Short: "Compare the contents of two archives without extracting them",
		Long: `archdiff compares the logical file contents of two archives (zip, tar with
common compressions, or a plain directory tree) and reports which files are
identical, differ, or exist only on one side.

Equality is whole-file content equality via hash. By default the longest
directory prefix common to all entries of an archive is stripped before
matching, so re-rooted trees still compare equal.

The exit code is zero when the comparison ran to completion, whether or not
differences were found, and nonzero on any error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.keepPrefix, "keep-prefix", false,
		"compare raw in-archive paths without stripping the common prefix")
	cmd.Flags().BoolVar(&opts.suppressCommon, "suppress-common", false,
		"omit files that are identical on both sides from the report")
	cmd.Flags().StringVar(&opts.hashAlgorithm, "hash-algorithm", archdiff.DefaultAlgorithm,
		"hash algorithm for file equality (see 'archdiff algorithms')")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"print a one-line summary only when the archives differ")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"log progress to stderr")

	cmd.AddCommand(newAlgorithmsCommand())
	return cmd
}

func (o *rootOpts) run(cmd *cobra.Command, leftPath, rightPath string) error {
	diffOpts := []archdiff.DiffOption{
		archdiff.WithHashAlgorithm(o.hashAlgorithm),
	}
	if o.keepPrefix {
		diffOpts = append(diffOpts, archdiff.WithKeepPrefix())
	}
	if o.verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		diffOpts = append(diffOpts, archdiff.WithLogger(logger))
	}

	result, err := archdiff.Diff(cmd.Context(), leftPath, rightPath, diffOpts...)
	if err != nil {
		return err
	}

	if o.quiet {
		return result.WriteSummary(cmd.OutOrStdout())
	}
	return result.WriteReport(cmd.OutOrStdout(), archdiff.ReportOptions{
		SuppressCommon: o.suppressCommon,
	})
}
