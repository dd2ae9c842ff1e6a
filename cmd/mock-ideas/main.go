package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/ideas-cli/internal/logging"
	"github.com/glabrego/ideas-cli/internal/mockapi"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr      string
		total     int
		imageBase string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:          "mock-ideas",
		Short:        "Serve a local ideas list endpoint for development",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if debug {
				level = "debug"
			}
			logger, closeLog, err := logging.Setup(logging.Config{Level: level, Pretty: true, Output: os.Stderr})
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			srv := &http.Server{
				Addr: addr,
				Handler: mockapi.New(mockapi.Options{
					Total:     total,
					ImageBase: imageBase,
					Logger:    logging.NewLogger("mockapi"),
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Int("total", total).Msg("mock ideas api listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	cmd.Flags().IntVar(&total, "total", mockapi.DefaultTotal, "number of ideas to serve")
	cmd.Flags().StringVar(&imageBase, "image-base", mockapi.DefaultImageBase, "prefix for generated image URLs")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every request")
	return cmd
}
