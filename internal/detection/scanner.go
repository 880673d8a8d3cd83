package detection

import (
	"errors"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Config tunes document detection.
type Config struct {
	// LowThreshold and HighThreshold are the hysteresis thresholds of the
	// default Canny detector (0-255 scale).
	LowThreshold  float64
	HighThreshold float64

	// AutoThreshold derives the Canny thresholds from the image median.
	AutoThreshold bool

	// MinContourPoints drops traces shorter than this.
	MinContourPoints int

	// MinAreaRatio is the smallest candidate area as a share of the image.
	MinAreaRatio float64

	// EpsilonFactor scales a contour's perimeter into its simplification
	// tolerance.
	EpsilonFactor float64

	// MaxDimension, when positive, downsizes larger images before detection.
	// Corners are mapped back and correction always samples the original.
	MaxDimension int

	// Edges overrides the Canny detector built from the thresholds above.
	Edges EdgeDetector

	// Fallback, when set, is tried after the primary detector finds nothing.
	Fallback EdgeDetector
}

// DefaultConfig returns the standard detection settings.
func DefaultConfig() Config {
	return Config{
		LowThreshold:     50,
		HighThreshold:    150,
		MinContourPoints: 10,
		MinAreaRatio:     0.10,
		EpsilonFactor:    0.02,
	}
}

// Result is a successfully corrected document.
type Result struct {
	// Corrected is the rectified document, RGBA.
	Corrected *imaging.Raster

	// Quad is the outline that was used, in source image coordinates.
	Quad Quad

	// Candidates lists every accepted outline, largest first.
	Candidates []Quad

	// Width and Height of Corrected.
	Width  int
	Height int

	// Scale is the factor detection coordinates were multiplied by to reach
	// the source image; 1 when no downsizing happened.
	Scale float64
}

// Scanner finds a document in a photo and rectifies it.
//
// A Scanner holds no per-image state and may be shared between goroutines.
type Scanner struct {
	cfg      Config
	edges    EdgeDetector
	fallback EdgeDetector
	log      logrus.FieldLogger
}

// NewScanner builds a Scanner. A nil logger discards output.
func NewScanner(cfg Config, log logrus.FieldLogger) *Scanner {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	edges := cfg.Edges
	if edges == nil {
		edges = CannyDetector{Low: cfg.LowThreshold, High: cfg.HighThreshold, Auto: cfg.AutoThreshold}
	}
	return &Scanner{cfg: cfg, edges: edges, fallback: cfg.Fallback, log: log}
}

// DetectAndCorrectDocument runs the full pipeline with DefaultConfig.
func DetectAndCorrectDocument(src *imaging.Raster) (*Result, error) {
	return NewScanner(DefaultConfig(), nil).DetectAndCorrect(src)
}

// Detect returns the document candidates in src, largest first, in src
// coordinates. It fails with ErrNoEdgesFound or ErrNoDocumentCandidate.
func (s *Scanner) Detect(src *imaging.Raster) ([]Quad, error) {
	quads, _, err := s.detect(src)
	return quads, err
}

// Correct rectifies the region of src outlined by q into an upright
// rectangle sized by q's longer opposite edges. q is checked with
// Quad.Validate first.
func (s *Scanner) Correct(src *imaging.Raster, q Quad) (*imaging.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := q.Validate(src.Width, src.Height); err != nil {
		return nil, err
	}
	w, h := q.Size()
	fw, fh := float64(w-1), float64(h-1)
	dst := [4]PointF{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}

	m, err := SolveHomography(dst, q)
	if err != nil {
		return nil, err
	}
	return imaging.WarpPerspective(src, m, w, h), nil
}

// DetectAndCorrect detects candidates and corrects the largest one that
// yields a solvable transform.
func (s *Scanner) DetectAndCorrect(src *imaging.Raster) (*Result, error) {
	quads, scale, err := s.detect(src)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i, q := range quads {
		out, err := s.Correct(src, q)
		var gerr *GeometryError
		if errors.As(err, &gerr) {
			s.log.WithFields(logrus.Fields{"candidate": i, "reason": gerr.Reason}).Debug("Skipping degenerate candidate")
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"width":      out.Width,
			"height":     out.Height,
			"candidates": len(quads),
		}).Debug("Document corrected")
		return &Result{
			Corrected:  out,
			Quad:       q,
			Candidates: quads,
			Width:      out.Width,
			Height:     out.Height,
			Scale:      scale,
		}, nil
	}
	return nil, lastErr
}

func (s *Scanner) detect(src *imaging.Raster) ([]Quad, float64, error) {
	if err := src.Validate(); err != nil {
		return nil, 0, err
	}
	work, scale := imaging.Fit(src, s.cfg.MaxDimension)

	quads, err := s.detectWith(s.edges, work)
	if IsNotFound(err) && s.fallback != nil {
		s.log.WithError(err).Debug("Primary edge detector found nothing, trying fallback")
		if fq, ferr := s.detectWith(s.fallback, work); ferr == nil {
			quads, err = fq, nil
		}
	}
	if err != nil {
		return nil, scale, err
	}

	if scale != 1 {
		maxX, maxY := float64(src.Width-1), float64(src.Height-1)
		for i := range quads {
			q := quads[i].Scale(scale)
			for j := range q {
				q[j].X = math.Min(math.Max(q[j].X, 0), maxX)
				q[j].Y = math.Min(math.Max(q[j].Y, 0), maxY)
			}
			quads[i] = q
		}
	}
	return quads, scale, nil
}

func (s *Scanner) detectWith(d EdgeDetector, work *imaging.Raster) ([]Quad, error) {
	edges, err := d.Edges(work)
	if err != nil {
		return nil, err
	}

	contours := TraceContours(edges, s.cfg.MinContourPoints)
	if len(contours) == 0 {
		return nil, ErrNoEdgesFound
	}

	quads := SelectDocuments(contours, work.Width, work.Height, s.cfg)
	s.log.WithFields(logrus.Fields{
		"width":      work.Width,
		"height":     work.Height,
		"contours":   len(contours),
		"candidates": len(quads),
	}).Debug("Contours traced")
	if len(quads) == 0 {
		return nil, ErrNoDocumentCandidate
	}
	return quads, nil
}
