// Package server exposes verification as the gRPC service gofvm.Verifier.
//
// Requests are documents. Reports are stored by document fingerprint, so
// verifying an unchanged document again returns the stored reports.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gofvm"
	"gofvm/eval"
	"gofvm/model"
	"gofvm/store"
	"gofvm/unfold"

	"github.com/golang/protobuf/ptypes/empty"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	srv   *grpc.Server
	store *store.Store
	log   *zap.Logger

	timeout    time.Duration
	evaluators eval.Evaluators
	opts       []gofvm.Option
}

var _ VerifierServer = (*Server)(nil)

func New(opts ...Option) *Server {
	s := &Server{
		log:        zap.NewNop(),
		evaluators: eval.Default(),
	}
	srvOpts := []grpc.ServerOption{}
	for _, opt := range opts {
		switch t := opt.(type) {
		case loggerOption:
			s.log = t.log
		case storeOption:
			s.store = t.store
		case timeoutOption:
			s.timeout = t.timeout
		case verifyOption:
			s.opts = append(s.opts, t.opts...)
		case serverOption:
			srvOpts = append(srvOpts, t.opts...)
		}
	}
	s.opts = append([]gofvm.Option{gofvm.WithLogger(s.log)}, s.opts...)
	srvOpts = append(srvOpts, grpc.ChainUnaryInterceptor(LoggingInterceptor(s.log)))
	s.srv = grpc.NewServer(srvOpts...)
	RegisterVerifierServer(s.srv, s)
	return s
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("Serving", zap.String("service", ServiceName), zap.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Stop waits for running requests to finish and closes the store.
func (s *Server) Stop() error {
	s.srv.GracefulStop()
	var err error
	if s.store != nil {
		err = multierr.Append(err, s.store.Close())
	}
	return err
}

func (s *Server) Verify(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	d, err := model.FromStruct(in)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := d.Validate(); err != nil {
		return nil, toStatus(err)
	}
	fp, err := d.Fingerprint()
	if err != nil {
		return nil, toStatus(err)
	}

	if s.store != nil {
		reports, err := s.store.Get(fp)
		if err == nil {
			s.log.Debug("Returning stored reports", zap.String("document", d.Name), zap.String("fingerprint", fp))
			return toStruct(reports)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, toStatus(err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reports, err := gofvm.VerifyDocument(ctx, d, s.opts...)
	if err != nil {
		return nil, toStatus(err)
	}
	if s.store != nil {
		if err := s.store.Put(fp, reports); err != nil {
			s.log.Error("Could not store reports", zap.String("fingerprint", fp), zap.Error(err))
		}
	}
	return toStruct(reports)
}

func (s *Server) Reports(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fp := in.GetFields()["fingerprint"].GetStringValue()
	if fp == "" {
		return nil, status.Error(codes.InvalidArgument, "missing fingerprint")
	}
	if s.store == nil {
		return nil, status.Error(codes.Unavailable, "no report store configured")
	}
	reports, err := s.store.Get(fp)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(reports)
}

func (s *Server) Evaluators(context.Context, *empty.Empty) (*structpb.Struct, error) {
	conditions := []any{}
	for _, def := range s.evaluators.Conditions {
		conditions = append(conditions, fmt.Sprintf("%T", def))
	}
	actions := []any{}
	for _, def := range s.evaluators.Actions {
		actions = append(actions, fmt.Sprintf("%T", def))
	}
	out, err := structpb.NewStruct(map[string]any{
		"conditions": conditions,
		"actions":    actions,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStruct(reports []model.Report) (*structpb.Struct, error) {
	out, err := model.ReportsStruct(reports)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, model.ErrInvalidDocument):
		code = codes.InvalidArgument
	case errors.Is(err, store.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, unfold.ErrStateLimit):
		code = codes.ResourceExhausted
	case errors.Is(err, eval.ErrSyntax), errors.Is(err, eval.ErrType),
		errors.Is(err, eval.ErrUnboundVariable), errors.Is(err, eval.ErrBlocked):
		code = codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Error(code, err.Error())
}

// LoggingInterceptor logs every call with its duration and status code.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Stringer("code", status.Code(err)),
		}
		if err != nil {
			log.Error("Call failed", append(fields, zap.Error(err))...)
		} else {
			log.Info("Call", fields...)
		}
		return resp, err
	}
}
