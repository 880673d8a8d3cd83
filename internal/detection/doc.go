// Package detection finds a paper document in a photograph and rectifies it.
//
// Detection works on the binary edge map produced by an EdgeDetector
// (Canny by default):
//
//  1. Contour tracing: a turn-biased 4-connected walker follows edge pixels
//     and records ordered boundary traces.
//  2. Simplification: each closed trace is reduced with Douglas-Peucker,
//     using 2% of its perimeter as the tolerance.
//  3. Selection: traces covering at least 10% of the image that reduce to a
//     convex quadrilateral become candidates, corners ordered top-left,
//     top-right, bottom-right, bottom-left, largest first.
//
// Correction solves the homography from an upright destination rectangle to
// the candidate quad and resamples the source through it.
//
// # Failure Modes
//
// Every failure is recoverable. ErrNoEdgesFound, ErrNoDocumentCandidate and
// degenerate geometry (*GeometryError) all match ErrNotFound with errors.Is;
// callers usually offer a manual crop instead.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
