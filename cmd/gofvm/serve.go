package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"gofvm/server"
	"gofvm/store"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gofvm.Verifier gRPC service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storeOpts := []store.Option{store.WithLogger(logger)}
		if cfg.Store.InMemory {
			storeOpts = append(storeOpts, store.InMemory())
		}
		s, err := store.Open(cfg.Store.Path, storeOpts...)
		if err != nil {
			return err
		}

		srv := server.New(
			server.WithLogger(logger),
			server.WithStore(s),
			server.WithTimeout(cfg.Timeout),
			server.WithVerifyOptions(cfg.VerifyOptions(logger)...),
		)
		lis, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return multierr.Append(err, srv.Stop())
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-stop
			logger.Info("Stopping", zap.Stringer("signal", sig))
			if err := srv.Stop(); err != nil {
				logger.Error("Stopped with errors", zap.Error(err))
			}
		}()
		return srv.Serve(lis)
	},
}
