package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/server"
)

// NewServeCommand runs the MCP server on stdio.
func NewServeCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server on stdin/stdout.

Configure it in an MCP client; logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := detection.Lookup(backend)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"version": Version,
				"commit":  GitCommit,
				"backend": b.Name(),
			}).Info("mcp server starting")

			return server.New(logrus.StandardLogger(), Version, gauge.WithBackend(b)).Run()
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "detection backend")

	return cmd
}
