package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var logLevel = "info"

// setupLogger sends logs to stderr; stdout carries readings and MCP
// traffic.
func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}

func main() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewCommand builds the root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gauge-reader",
		Short: "gauge-reader reads analog dial gauges from photos",
		Long: `gauge-reader reads analog dial gauges from photos.

It finds the dial, calibrates the scale from a JSON5 profile, finds the
needle and converts its angle into a value in the gauge's units.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")

	cmd.AddCommand(
		NewReadCommand(),
		NewBatchCommand(),
		NewServeCommand(),
		NewHTTPCommand(),
		NewVersionCommand(),
	)

	return cmd
}
