// Package ocr reads the printed units label of a gauge with Tesseract.
//
// The check is advisory: a reading is never rejected because the label
// could not be read. It only reports whether the text found on the dial
// mentions the units named in the calibration profile.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The package links against libtesseract through gosseract, so it needs
// cgo.
package ocr
