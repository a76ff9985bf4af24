// Package imaging holds the image plumbing around gauge reading: decoding
// and caching source images, cropping to the gauge face, and rendering the
// debug overlay.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// Crop and Annotate return images whose origin is (0, 0) regardless of the
// source image's bounds.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input image.
package imaging
