package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/gauge"
)

// pipelineFlags are the detection tuning flags shared by the commands
// that build a pipeline.
type pipelineFlags struct {
	roi       string
	tieBreak  string
	backend   string
	minRadius int
	maxRadius int
}

func (f *pipelineFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.roi, "roi", "", "region of interest x1,y1,x2,y2 (default whole frame)")
	fs.StringVar(&f.tieBreak, "tie-break", string(gauge.TieBreakLongest), "needle selection policy (longest, nearest-center, first)")
	fs.StringVar(&f.backend, "backend", "", fmt.Sprintf("detection backend (%s)", strings.Join(detection.Available(), ", ")))
	fs.IntVar(&f.minRadius, "min-radius", gauge.DefaultMinRadius, "smallest dial radius in pixels")
	fs.IntVar(&f.maxRadius, "max-radius", gauge.DefaultMaxRadius, "largest dial radius in pixels")
}

func (f *pipelineFlags) options() ([]gauge.Option, error) {
	backend, err := detection.Lookup(f.backend)
	if err != nil {
		return nil, err
	}
	tb, err := gauge.ParseTieBreak(f.tieBreak)
	if err != nil {
		return nil, err
	}

	opts := []gauge.Option{
		gauge.WithLogger(logrus.StandardLogger()),
		gauge.WithBackend(backend),
		gauge.WithRadiusRange(f.minRadius, f.maxRadius),
		gauge.WithTieBreak(tb),
	}
	if f.roi != "" {
		r, err := parseROI(f.roi)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gauge.WithRegion(r))
	}
	return opts, nil
}

// parseROI parses "x1,y1,x2,y2".
func parseROI(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid roi %q: want x1,y1,x2,y2", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid roi %q: %w", s, err)
		}
		v[i] = n
	}

	r := image.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("invalid roi %q: empty", s)
	}
	return r, nil
}
