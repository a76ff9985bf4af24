// Package detection provides the low-level computer vision primitives used
// to read an analog gauge: grayscale conversion, median blur, binary
// thresholding, Canny edge detection, the gradient Hough circle transform
// and the progressive probabilistic Hough line transform.
//
// # Backends
//
// The transforms are reachable through the Backend interface so the gauge
// pipeline does not care how they are computed:
//
//   - Native: pure Go, always available, deterministic.
//   - OpenCV: gocv bindings, compiled only with the "gocv" build tag and
//     a local OpenCV installation.
//
// Lookup resolves a backend by name; DefaultBackend returns OpenCV when the
// tag is set and Native otherwise.
//
// # Algorithm Overview
//
// Circle detection (HoughCircles) follows the "21HT" gradient method:
//
//  1. Edge Detection: Canny on the input with low = high/2
//  2. Center Voting: every edge pixel votes along its gradient direction,
//     in both senses, for every radius in [MinRadius, MaxRadius]
//  3. Center Selection: 8-neighbour local maxima of the 3×3-pooled
//     accumulator above AccumThreshold, strongest first, each moved to the
//     vote centroid of the raw accumulator around it
//  4. Radius Estimation: the ±1px band with the most edge pixels around
//     each center
//  5. Deduplication: a center inside an accepted face or closer than
//     MinDist is dropped, as is a radius that disagrees with the strongest
//     circle's, so one rim yields one circle
//
// Line detection (HoughLinesP) is the progressive probabilistic transform:
// edge points are visited in a seeded random order, each votes in (rho,
// theta) space, and as soon as a bin reaches Threshold the corresponding
// segment is traced through the edge map (bridging gaps up to MaxLineGap),
// removed from the map, and reported if it is at least MinLineLength long.
// Segments are returned in the order they were found.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Results are reported in the coordinate space of the input image, so an
// image whose bounds do not start at (0, 0) yields coordinates offset by
// Bounds().Min.
package detection
