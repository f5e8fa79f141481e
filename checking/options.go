package checking

import (
	"io"

	"go.uber.org/zap"
)

type Option interface{}

type loggerOption struct{ log *zap.Logger }

// Default value is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return loggerOption{log: log}
}

type searchTreeOption struct{ w io.Writer }

// Write the spanning tree of the outer search to the writer in Newick format,
// one tree per initial state it was started from.
//
// Can be applied multiple times to add multiple writers.
func WithSearchTree(w io.Writer) Option {
	return searchTreeOption{w: w}
}
