package detection

import (
	"errors"
	"fmt"
)

// ErrNotFound is the class of every outcome where no document could be
// extracted. Callers typically fall back to manual cropping.
var ErrNotFound = errors.New("document not found")

var (
	// ErrNoEdgesFound means the edge map contained no contour long enough
	// to consider.
	ErrNoEdgesFound = fmt.Errorf("%w: no edges found", ErrNotFound)

	// ErrNoDocumentCandidate means contours exist but none is a convex
	// quadrilateral above the area threshold.
	ErrNoDocumentCandidate = fmt.Errorf("%w: no document candidate", ErrNotFound)

	// ErrDegenerateHomography means the corners do not define a solvable
	// perspective transform (collinear or coincident points).
	ErrDegenerateHomography = fmt.Errorf("%w: degenerate homography", ErrNotFound)
)

// ErrCornersOutOfRange means caller-supplied corners lie too far outside the
// image to describe a region of it. It is a usage error, not a not-found
// outcome.
var ErrCornersOutOfRange = errors.New("corners outside the image")

// GeometryError reports a failed geometric computation.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Unwrap lets errors.Is match ErrDegenerateHomography and ErrNotFound.
func (e *GeometryError) Unwrap() error {
	return ErrDegenerateHomography
}

// IsNotFound reports whether err means no document could be extracted.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
