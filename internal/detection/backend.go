package detection

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// Backend computes the edge and Hough transforms the gauge pipeline needs.
//
// Implementations must be safe to call from multiple goroutines on
// different images.
type Backend interface {
	// Name identifies the backend ("native", "opencv").
	Name() string

	// HoughCircles returns circle candidates, strongest first.
	HoughCircles(gray *image.Gray, p CircleParams) ([]Circle, error)

	// Canny returns a binary edge map (edges 255, background 0).
	Canny(gray *image.Gray, low, high float64) (*image.Gray, error)

	// HoughLinesP returns line segments in detection order.
	HoughLinesP(edges *image.Gray, p LineParams) ([]Segment, error)
}

// Native is the pure-Go Backend.
type Native struct{}

var _ Backend = Native{}

// Name implements Backend.
func (Native) Name() string { return "native" }

// HoughCircles implements Backend.
func (Native) HoughCircles(gray *image.Gray, p CircleParams) ([]Circle, error) {
	return HoughCircles(gray, p), nil
}

// Canny implements Backend.
func (Native) Canny(gray *image.Gray, low, high float64) (*image.Gray, error) {
	return Canny(gray, low, high), nil
}

// HoughLinesP implements Backend.
func (Native) HoughLinesP(edges *image.Gray, p LineParams) ([]Segment, error) {
	return HoughLinesP(edges, p), nil
}

// backends holds every backend compiled into this binary, keyed by name.
var backends = map[string]Backend{
	Native{}.Name(): Native{},
}

// Lookup returns the backend registered under name. An empty name selects
// DefaultBackend.
func Lookup(name string) (Backend, error) {
	if name == "" {
		return DefaultBackend(), nil
	}
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown detection backend %q (available: %s)", name, strings.Join(Available(), ", "))
	}
	return b, nil
}

// Available lists the compiled-in backend names in sorted order.
func Available() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
