package unfold

import "go.uber.org/zap"

type Option interface{}

type maxStatesOption struct{ n int }

// Configure the maximum number of states the unfolded system may have.
// Unfolding fails with ErrStateLimit when more states are discovered.
//
// Default value is 0, which means no limit.
func WithMaxStates(n int) Option {
	return maxStatesOption{n: n}
}

type loggerOption struct{ log *zap.Logger }

// Default value is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return loggerOption{log: log}
}
