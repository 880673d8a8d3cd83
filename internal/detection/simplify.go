package detection

import "math"

// Simplify reduces a polyline with the Douglas-Peucker algorithm.
//
// The point farthest from the segment joining the first and last points is
// kept when its distance exceeds epsilon, and both halves are simplified
// recursively; otherwise only the two endpoints remain. Inputs of two or
// fewer points are returned as a copy.
func Simplify(points []Point, epsilon float64) []Point {
	n := len(points)
	if n <= 2 {
		return append([]Point(nil), points...)
	}
	epsilon = math.Max(epsilon, 0)

	first, last := points[0], points[n-1]
	maxDist, index := 0.0, 0
	for i := 1; i < n-1; i++ {
		if d := segmentDistance(points[i], first, last); d > maxDist {
			maxDist, index = d, i
		}
	}

	if maxDist > epsilon {
		left := Simplify(points[:index+1], epsilon)
		right := Simplify(points[index:], epsilon)
		return append(left[:len(left)-1], right...)
	}
	return []Point{first, last}
}

// SimplifyClosed simplifies a cyclic contour.
//
// The trace is closed by repeating its first point, simplified as a polyline,
// and the repeated point removed again. The trace's start pixel is an
// arbitrary seam rather than a real corner, so it is dropped when it lies
// within epsilon of the segment joining its two neighbours.
func SimplifyClosed(c Contour, epsilon float64) []Point {
	if len(c) < 3 {
		return append([]Point(nil), c...)
	}

	closed := make([]Point, len(c)+1)
	copy(closed, c)
	closed[len(c)] = c[0]

	poly := Simplify(closed, epsilon)
	poly = poly[:len(poly)-1]

	if n := len(poly); n > 3 && segmentDistance(poly[0], poly[n-1], poly[1]) <= epsilon {
		poly = poly[1:]
	}
	return poly
}

// Perimeter returns the length of the closed polygon through points.
func Perimeter(points []Point) float64 {
	var sum float64
	for i := range points {
		sum += distance(points[i], points[(i+1)%len(points)])
	}
	return sum
}

// segmentDistance is the distance from p to the segment ab, falling back to
// the nearest endpoint when the projection lands outside the segment.
func segmentDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return distance(p, a)
	}

	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	px := float64(a.X) + t*dx
	py := float64(a.Y) + t*dy
	return math.Hypot(float64(p.X)-px, float64(p.Y)-py)
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
