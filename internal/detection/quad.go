package detection

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// PointF is a real-valued image coordinate.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is a document candidate with corners ordered top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]PointF

// Area returns the quad's area in square pixels.
func (q Quad) Area() float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		a, b := q[i], q[(i+1)%4]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// Size returns the pixel dimensions of the rectified document: the longer
// of each pair of opposite edges, truncated and at least 1.
func (q Quad) Size() (width, height int) {
	w := math.Max(hypot(q[0], q[1]), hypot(q[2], q[3]))
	h := math.Max(hypot(q[0], q[3]), hypot(q[1], q[2]))
	return max(int(w), 1), max(int(h), 1)
}

const (
	// cornerMargin is how far corners may lie outside the image, as a
	// fraction of its width or height.
	cornerMargin = 0.5

	// maxOutputRatio bounds the rectified area relative to the source area.
	maxOutputRatio = 4

	// minTurnSine is the smallest |sin| of the turn at a corner; flatter
	// corners make the quad a triangle or a line.
	minTurnSine = 1e-3
)

// Within fails with ErrCornersOutOfRange when a corner lies more than half
// the image size outside a width x height image.
func (q Quad) Within(width, height int) error {
	mx, my := cornerMargin*float64(width), cornerMargin*float64(height)
	for i, p := range q {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) ||
			p.X < -mx || p.X > float64(width)+mx || p.Y < -my || p.Y > float64(height)+my {
			return fmt.Errorf("%w: corner %d at (%.1f,%.1f) for a %dx%d image",
				ErrCornersOutOfRange, i, p.X, p.Y, width, height)
		}
	}
	return nil
}

// Validate checks that q can be rectified from a width x height image. Far
// away corners and an oversized output give ErrCornersOutOfRange. Coincident
// corners, or three consecutive corners on one line, give a *GeometryError.
func (q Quad) Validate(width, height int) error {
	if err := q.Within(width, height); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		l1, l2 := hypot(a, b), hypot(b, c)
		if l1 < 1 {
			return &GeometryError{Op: "validate corners", Reason: fmt.Sprintf("corners %d and %d coincide", i, (i+1)%4)}
		}
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < minTurnSine*l1*l2 {
			return &GeometryError{Op: "validate corners", Reason: fmt.Sprintf("corners %d, %d and %d are collinear", i, (i+1)%4, (i+2)%4)}
		}
	}
	w, h := q.Size()
	if float64(w)*float64(h) > maxOutputRatio*float64(width)*float64(height) {
		return fmt.Errorf("%w: %dx%d output from a %dx%d image", ErrCornersOutOfRange, w, h, width, height)
	}
	return nil
}

// Scale multiplies every corner by f.
func (q Quad) Scale(f float64) Quad {
	for i := range q {
		q[i].X *= f
		q[i].Y *= f
	}
	return q
}

// ImagePoints rounds the corners to integer pixels.
func (q Quad) ImagePoints() [4]image.Point {
	var pts [4]image.Point
	for i, p := range q {
		pts[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	return pts
}

func hypot(a, b PointF) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PolygonArea returns the unsigned shoelace area of a closed polygon.
func PolygonArea(points []Point) float64 {
	var sum int64
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	return math.Abs(float64(sum)) / 2
}

// IsConvex reports whether every turn of the closed polygon goes the same
// way. Collinear vertices (zero cross product) are ignored.
func IsConvex(points []Point) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := points[i], points[(i+1)%n], points[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		s := 0
		switch {
		case cross > 0:
			s = 1
		case cross < 0:
			s = -1
		}
		if s == 0 {
			continue
		}
		if sign != 0 && s != sign {
			return false
		}
		sign = s
	}
	return sign != 0
}

// OrderCorners puts four points into top-left, top-right, bottom-right,
// bottom-left order.
//
// The two smallest-x points form the left side and the other two the right
// side; within each side the smaller y is the top. This is only reliable for
// roughly upright documents: past about 45 degrees of rotation the split by x
// no longer separates the true left and right edges.
func OrderCorners(pts [4]PointF) Quad {
	sorted := pts
	sort.SliceStable(sorted[:], func(i, j int) bool { return sorted[i].X < sorted[j].X })

	left := [2]PointF{sorted[0], sorted[1]}
	right := [2]PointF{sorted[2], sorted[3]}
	if left[0].Y > left[1].Y {
		left[0], left[1] = left[1], left[0]
	}
	if right[0].Y > right[1].Y {
		right[0], right[1] = right[1], right[0]
	}
	return Quad{left[0], right[0], right[1], left[1]}
}

// SelectDocuments turns traced contours into ranked document candidates.
//
// A contour survives when its area is at least cfg.MinAreaRatio of the
// width x height image, its closed Douglas-Peucker simplification (epsilon =
// cfg.EpsilonFactor x perimeter) has exactly four vertices, and those
// vertices form a convex polygon. Survivors are returned largest first.
func SelectDocuments(contours []Contour, width, height int, cfg Config) []Quad {
	minArea := cfg.MinAreaRatio * float64(width) * float64(height)

	var quads []Quad
	for _, c := range contours {
		if PolygonArea(c) < minArea {
			continue
		}
		poly := SimplifyClosed(c, cfg.EpsilonFactor*Perimeter(c))
		if len(poly) != 4 || !IsConvex(poly) || PolygonArea(poly) < minArea {
			continue
		}

		var pts [4]PointF
		for i, p := range poly {
			pts[i] = PointF{X: float64(p.X), Y: float64(p.Y)}
		}
		quads = append(quads, OrderCorners(pts))
	}

	sort.SliceStable(quads, func(i, j int) bool { return quads[i].Area() > quads[j].Area() })
	return quads
}
