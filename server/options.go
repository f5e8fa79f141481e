package server

import (
	"time"

	"gofvm"
	"gofvm/store"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type Option interface{}

type loggerOption struct{ log *zap.Logger }

func WithLogger(log *zap.Logger) Option {
	return loggerOption{log: log}
}

type storeOption struct{ store *store.Store }

// Store reports in s and answer repeated requests from it. The server closes
// the store when stopped.
func WithStore(s *store.Store) Option {
	return storeOption{store: s}
}

type timeoutOption struct{ timeout time.Duration }

// Bound the time spent on a single verification. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return timeoutOption{timeout: timeout}
}

type verifyOption struct{ opts []gofvm.Option }

// Pass options to every verification.
func WithVerifyOptions(opts ...gofvm.Option) Option {
	return verifyOption{opts: opts}
}

type serverOption struct{ opts []grpc.ServerOption }

func WithServerOptions(opts ...grpc.ServerOption) Option {
	return serverOption{opts: opts}
}
