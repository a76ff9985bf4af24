package gauge

import (
	"context"
	"image"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BatchResult is the outcome for one image of a batch.
type BatchResult struct {
	Path    string  `json:"path"`
	Reading Reading `json:"reading"`
	Err     error   `json:"-"`
}

// Loader decodes the image at path.
type Loader func(path string) (image.Image, error)

// ReadAll reads every path with up to workers goroutines and returns one
// result per path, in input order. A failing image never stops the batch.
// Once ctx is cancelled the images not yet started are skipped and their
// results carry ctx.Err().
func (p *Pipeline) ReadAll(ctx context.Context, paths []string, workers int, load Loader) []BatchResult {
	results := make([]BatchResult, len(paths))
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	for i := range paths {
		results[i].Path = paths[i]
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.readOne(ctx, paths[i], load)
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				results[j].Err = ctx.Err()
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Pipeline) readOne(ctx context.Context, path string, load Loader) BatchResult {
	res := BatchResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	img, err := load(path)
	if err != nil {
		res.Err = pkgerrors.Wrapf(err, "load %s", path)
		return res
	}
	res.Reading, res.Err = p.Read(img)

	entry := p.log.WithField("path", path)
	if res.Err != nil {
		entry.WithError(res.Err).Warn("Failed to read gauge")
	} else {
		entry.WithFields(logrus.Fields{"value": res.Reading.Value, "units": res.Reading.Units}).Info("Gauge read")
	}
	return res
}
