package archdiff

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Diff compares the archives at leftPath and rightPath and returns the
// classified result.
//
// The hash algorithm is validated before either archive is opened. The two
// indexes are independent and are built concurrently; within one archive,
// entries are processed strictly one at a time so streaming containers never
// have more than one content stream open.
//
// All structures are built fresh per call and are not retained; Diff holds
// no state between invocations.
func Diff(ctx context.Context, leftPath, rightPath string, opts ...DiffOption) (*Result, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	log := cfg.log()
	log.Info("comparing archives",
		"left", leftPath,
		"right", rightPath,
		"algorithm", cfg.algorithm.String(),
		"keep_prefix", cfg.keepPrefix)

	var left, right *Index
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		left, err = indexArchive(gctx, leftPath, cfg)
		return err
	})
	g.Go(func() error {
		var err error
		right, err = indexArchive(gctx, rightPath, cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug("indexes built", "left_entries", left.Len(), "right_entries", right.Len())
	return Compare(left, right), nil
}
