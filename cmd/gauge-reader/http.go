package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/httpapi"
)

// NewHTTPCommand runs the HTTP API.
func NewHTTPCommand() *cobra.Command {
	var (
		listen  string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve readings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := detection.Lookup(backend)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := httpapi.New(logrus.StandardLogger(), Version, gauge.WithBackend(b))
			return api.ListenAndServe(ctx, listen)
		},
	}

	f := cmd.Flags()
	f.StringVar(&listen, "listen", ":8080", "address to listen on")
	f.StringVar(&backend, "backend", "", "detection backend")

	return cmd
}
