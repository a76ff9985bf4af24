//go:build !gocv

package detection

// DefaultBackend returns the pure-Go backend. Build with -tags gocv to make
// OpenCV the default.
func DefaultBackend() Backend {
	return Native{}
}
