package archdiff

import (
	"log/slog"

	"github.com/opencontainers/go-digest"
)

// diffConfig holds configuration for one comparison.
type diffConfig struct {
	keepPrefix    bool
	algorithmName string
	algorithm     digest.Algorithm
	logger        *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (c diffConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// resolveConfig applies options and validates the hash algorithm. Validation
// happens here, before any archive is opened.
func resolveConfig(opts []DiffOption) (diffConfig, error) {
	cfg := diffConfig{algorithmName: DefaultAlgorithm}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.algorithmName == "" {
		cfg.algorithmName = DefaultAlgorithm
	}
	alg, err := LookupAlgorithm(cfg.algorithmName)
	if err != nil {
		return diffConfig{}, err
	}
	cfg.algorithm = alg
	return cfg, nil
}

// DiffOption configures a comparison.
type DiffOption func(*diffConfig)

// WithKeepPrefix disables common-prefix stripping: every identity equals the
// entry's raw in-archive path. The prefix is still detected and reported.
func WithKeepPrefix() DiffOption {
	return func(cfg *diffConfig) {
		cfg.keepPrefix = true
	}
}

// WithHashAlgorithm selects the content hash algorithm by name. See
// [Algorithms] for the supported names; the default is [DefaultAlgorithm].
func WithHashAlgorithm(name string) DiffOption {
	return func(cfg *diffConfig) {
		cfg.algorithmName = name
	}
}

// WithLogger sets the logger for progress diagnostics. A nil logger
// disables logging.
func WithLogger(l *slog.Logger) DiffOption {
	return func(cfg *diffConfig) {
		cfg.logger = l
	}
}
