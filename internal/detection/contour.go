package detection

import (
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Point represents a 2D integer pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is an ordered boundary trace of edge pixels. Consecutive points
// are 4-connected neighbours and the sequence is cyclic: the last point is
// conceptually followed by the first.
type Contour []Point

// Bounds represents a rectangular bounding box in pixel coordinates, both
// corners inclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Bounds returns the bounding box of the contour.
func (c Contour) Bounds() Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: c[0].X, Y1: c[0].Y, X2: c[0].X, Y2: c[0].Y}
	for _, p := range c[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}

// headings indexed by direction code: 0 = +x, 1 = +y, 2 = -x, 3 = -y.
var headings = [4]Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// TraceContours extracts boundary traces from a binary edge raster.
//
// The raster is scanned row by row (skipping the 1px border) for edge pixels
// no earlier trace has touched. From each one a walker starts heading +x and
// at every step tries, relative to its heading, left, straight, right and
// back, moving to the first edge pixel found. The walk ends when it steps
// back onto its start, when it is boxed in, when it runs into a pixel owned
// by an earlier trace, or when it repeats a (pixel, heading) state without
// ever reaching the start. Traces shorter than minPoints are dropped.
//
// Any pixel > 0 counts as an edge.
func TraceContours(edges *imaging.Raster, minPoints int) []Contour {
	w, h := edges.Width, edges.Height
	t := &tracer{
		edges: edges,
		owner: make([]int32, w*h),
		seen:  make([]uint8, w*h),
	}

	var contours []Contour
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if edges.Pix[i] == 0 || t.owner[i] != 0 {
				continue
			}
			t.id++
			if c := t.trace(Point{x, y}); len(c) >= minPoints {
				contours = append(contours, c)
			}
		}
	}
	return contours
}

type tracer struct {
	edges *imaging.Raster
	owner []int32 // id of the trace that first entered each pixel, 0 if none
	seen  []uint8 // bitmask of headings each pixel was entered with
	id    int32
}

func (t *tracer) trace(start Point) Contour {
	w := t.edges.Width
	var c Contour
	cur, dir := start, 0
	t.seen[start.Y*w+start.X] = 1 << dir

	for {
		t.owner[cur.Y*w+cur.X] = t.id
		c = append(c, cur)

		next, nd, ok := t.step(cur, dir)
		if !ok || next == start {
			return c
		}

		j := next.Y*w + next.X
		switch t.owner[j] {
		case 0:
		case t.id:
			if t.seen[j]&(1<<nd) != 0 {
				return c
			}
		default:
			return c
		}
		t.seen[j] |= 1 << nd
		cur, dir = next, nd
	}
}

// step finds the next edge pixel from cur, preferring a left turn relative
// to dir, then straight, right and finally reversing.
func (t *tracer) step(cur Point, dir int) (Point, int, bool) {
	for i := 0; i < 4; i++ {
		nd := (dir + 3 + i) % 4
		n := Point{cur.X + headings[nd].X, cur.Y + headings[nd].Y}
		if n.X < 0 || n.Y < 0 || n.X >= t.edges.Width || n.Y >= t.edges.Height {
			continue
		}
		if t.edges.Pix[n.Y*t.edges.Width+n.X] > 0 {
			return n, nd, true
		}
	}
	return Point{}, 0, false
}
