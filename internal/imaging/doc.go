// Package imaging provides the raster layer of the document scanner.
//
// It owns the Raster type that every pipeline stage passes along, the Canny
// edge stages (grayscale, Gaussian blur, Sobel, non-maximum suppression and
// hysteresis), the perspective resampler that produces the corrected page,
// and the supporting operations exposed by the MCP server: cached loading,
// manual crop, scan enhancement, paper tone analysis and quad overlays.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Gradient directions follow
// the same axes, so a direction of +90 degrees points down the image.
//
// # Rasters
//
// A Raster is row-major with 1 (gray, edge map) or 4 (non-premultiplied RGBA)
// channels. Stages never mutate their input; each allocates a fresh output,
// which keeps concurrent pipeline runs on different images independent.
// Raster.Image and FromImage convert to and from the standard library types
// used by disintegration/imaging and bild.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless.
package imaging
