package store

import "go.uber.org/zap"

type Option interface{}

type loggerOption struct{ log *zap.Logger }

func WithLogger(log *zap.Logger) Option {
	return loggerOption{log: log}
}

type inMemoryOption struct{}

// Keep the store in memory. Nothing is written to disk.
func InMemory() Option {
	return inMemoryOption{}
}
