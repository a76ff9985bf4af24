package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// NewBatchCommand reads every image in a directory with one profile.
func NewBatchCommand() *cobra.Command {
	var (
		pf         pipelineFlags
		configPath string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Read every gauge photo in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gauge.LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts, err := pf.options()
			if err != nil {
				return err
			}
			p, err := gauge.NewPipeline(cfg, opts...)
			if err != nil {
				return err
			}

			paths, err := listImages(args[0])
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"dir":     args[0],
				"images":  len(paths),
				"workers": workers,
			}).Info("batch starting")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range p.ReadAll(ctx, paths, workers, imaging.LoadFile) {
				if r.Err != nil {
					failed++
					logrus.WithField("path", r.Path).WithError(r.Err).Warn("read failed")
					fmt.Fprintf(out, "%s\terror\t%v\n", r.Path, r.Err)
					continue
				}
				fmt.Fprintf(out, "%s\t%.2f\t%s\n", r.Path, r.Reading.Value, r.Reading.Units)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images failed", failed, len(paths))
			}
			return nil
		},
	}

	f := cmd.Flags()
	pf.bind(f)
	f.StringVarP(&configPath, "config", "c", "", "calibration profile (JSON5)")
	f.IntVarP(&workers, "workers", "w", 4, "number of images read in parallel")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// listImages returns the image files directly inside dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}
	return paths, nil
}
