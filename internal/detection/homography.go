package detection

import (
	"fmt"
	"math"
)

// pivotTolerance is the smallest pivot accepted, relative to the largest
// coefficient of the normalized system.
const pivotTolerance = 1e-12

// Homography is a 3x3 projective transform in row-major order with the last
// element normalized to 1.
type Homography [9]float64

// Apply maps (x, y) through the transform. ok is false when the point maps
// to infinity.
func (m Homography) Apply(x, y float64) (px, py float64, ok bool) {
	w := m[6]*x + m[7]*y + m[8]
	if w == 0 {
		return 0, 0, false
	}
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w, true
}

// SolveHomography computes the transform taking each from[i] to to[i].
//
// Each correspondence (x, y) -> (u, v) contributes the rows
//
//	[x y 1 0 0 0 -ux -uy | u]
//	[0 0 0 x y 1 -vx -vy | v]
//
// and the 8x8 system is solved by Gaussian elimination with partial pivoting.
// Both point sets are first normalized to their centroid with a mean radius
// of sqrt(2), so the coefficients stay near unit scale whatever the image
// size. A vanishing pivot yields a *GeometryError wrapping
// ErrDegenerateHomography.
func SolveHomography(from, to [4]PointF) (Homography, error) {
	tf, nf, okf := normalizePoints(from)
	tt, nt, okt := normalizePoints(to)
	if !okf || !okt {
		return Homography{}, &GeometryError{Op: "solve homography", Reason: "all points coincide"}
	}
	hn, err := solveNormalized(nf, nt)
	if err != nil {
		return Homography{}, err
	}

	// H = inverse(tt) * hn * tf
	m := tt.inverseSimilarity().mul(hn).mul(tf)
	var peak float64
	for _, v := range m {
		peak = math.Max(peak, math.Abs(v))
	}
	if math.Abs(m[8]) <= pivotTolerance*peak {
		return Homography{}, &GeometryError{Op: "solve homography", Reason: "transform maps the origin to infinity"}
	}
	for i := range m {
		m[i] /= m[8]
	}
	return m, nil
}

// normalizePoints returns the similarity moving the centroid of pts to the
// origin with mean distance sqrt(2), and the moved points. ok is false when
// every point is the same.
func normalizePoints(pts [4]PointF) (t Homography, out [4]PointF, ok bool) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx, cy = cx/4, cy/4

	var d float64
	for _, p := range pts {
		d += math.Hypot(p.X-cx, p.Y-cy)
	}
	d /= 4
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return t, out, false
	}

	s := math.Sqrt2 / d
	for i, p := range pts {
		out[i] = PointF{(p.X - cx) * s, (p.Y - cy) * s}
	}
	return Homography{s, 0, -s * cx, 0, s, -s * cy, 0, 0, 1}, out, true
}

// inverseSimilarity inverts a transform built by normalizePoints.
func (m Homography) inverseSimilarity() Homography {
	s := m[0]
	return Homography{1 / s, 0, -m[2] / s, 0, 1 / s, -m[5] / s, 0, 0, 1}
}

func (m Homography) mul(n Homography) Homography {
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			for k := 0; k < 3; k++ {
				out[r*3+c] += m[r*3+k] * n[k*3+c]
			}
		}
	}
	return out
}

func solveNormalized(from, to [4]PointF) (Homography, error) {
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := from[i].X, from[i].Y
		u, v := to[i].X, to[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	scale := 0.0
	for r := range a {
		for c := 0; c < 8; c++ {
			scale = math.Max(scale, math.Abs(a[r][c]))
		}
	}
	tol := pivotTolerance * scale

	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) <= tol {
			return Homography{}, &GeometryError{
				Op:     "solve homography",
				Reason: fmt.Sprintf("singular system at column %d", col),
			}
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < 8; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < 9; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	var h Homography
	for r := 7; r >= 0; r-- {
		sum := a[r][8]
		for c := r + 1; c < 8; c++ {
			sum -= a[r][c] * h[c]
		}
		h[r] = sum / a[r][r]
	}
	h[8] = 1
	return h, nil
}
