// Package r2save is the public facade tying together the bio, envelope,
// names, prop, and save packages: load a save file, walk or mutate its
// names and properties, and write it back out.
package r2save

import "log/slog"

// Option configures Load/FromCompressed/FromDecompressed. The save side
// (Save/ToCompressed/ToDecompressed) takes no options.
type Option func(*options)

type options struct {
	logger                *slog.Logger
	strictEnvelopeVersion bool
}

// WithLogger overrides the slog.Logger warnings and debug messages are sent
// to. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStrictEnvelopeVersion makes an envelope format_version other than
// envelope.ExpectedFormatVersion a hard error instead of a logged warning.
func WithStrictEnvelopeVersion(strict bool) Option {
	return func(o *options) { o.strictEnvelopeVersion = strict }
}

func newOptions(opts ...Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
