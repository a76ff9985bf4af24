package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/imaging"
	"github.com/ironsheep/gauge-reader/internal/ocr"
)

// NewReadCommand reads a single image.
func NewReadCommand() *cobra.Command {
	var (
		pf         pipelineFlags
		configPath string
		overlay    string
		checkUnits bool
		language   string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "read <image>",
		Short: "Read the value shown by a gauge photo",
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

			img, err := imaging.LoadFile(args[0])
			if err != nil {
				return err
			}

			reading, trace, readErr := p.ReadWithTrace(img)

			// The overlay is most useful when the read fails
			if overlay != "" {
				if err := imaging.SaveFile(gauge.RenderOverlay(img, trace, imaging.DefaultOverlayStyle()), overlay); err != nil {
					return err
				}
				logrus.WithField("path", overlay).Info("overlay written")
			}
			if readErr != nil {
				return readErr
			}

			if checkUnits {
				c := trace.Refined.Circle
				check, err := ocr.CheckUnits(trace.Refined.Image, c.CenterX, c.CenterY, c.Radius, cfg.Units, language)
				if err != nil {
					return err
				}
				if !check.Found {
					logrus.WithFields(logrus.Fields{
						"expected": check.Expected,
						"text":     check.Text,
					}).Warn("units label not found on the dial")
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reading)
			}
			_, err = fmt.Fprintf(out, "%.2f %s\n", reading.Value, reading.Units)
			return err
		},
	}

	f := cmd.Flags()
	pf.bind(f)
	f.StringVarP(&configPath, "config", "c", "", "calibration profile (JSON5)")
	f.StringVar(&overlay, "overlay", "", "write an annotated image to this path")
	f.BoolVar(&checkUnits, "check-units", false, "OCR the dial and warn when the units label is missing")
	f.StringVar(&language, "lang", ocr.DefaultLanguage, "tesseract language for --check-units")
	f.BoolVar(&asJSON, "json", false, "print the reading as JSON")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
