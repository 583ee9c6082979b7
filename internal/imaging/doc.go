// Package imaging provides the float-domain raster used by the RAW editor and the
// pixel-level helpers built around it.
//
// The central type is ImageBuffer: a 3-channel (R,G,B) raster of float32 samples
// normalized to [0,1]. Decoded 8-bit rasters enter through FromImage and leave
// through ToNRGBA, which quantizes back to 8 bits for display and export.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Sample Layout
//
// Samples are stored row-major and interleaved, R then G then B. Stride is the
// number of samples in one row (Channels × Width), so the red sample of pixel (x,y)
// lives at Pix[y*Stride + x*Channels].
//
// # Color Representation
//
// HSV conversions (RGBToHSV, HSVToRGB, ModulateSaturation) use hue in degrees
// [0,360) and saturation/value in [0,1], matching the float convention of common
// computer-vision libraries. Sampled colors are reported as:
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSV: hue in degrees, saturation and value in [0,1]
//
// # Inspection
//
// Render encodes a buffer (or a region of it) as base64 PNG, optionally scaled
// and overlaid with a coordinate grid. RegionStats reports mean color, clipping,
// and a luminance histogram for judging exposure.
//
// # Thread Safety
//
// ImageBuffer carries no locks. Functions in this package never mutate their
// input buffers, so a buffer may be read concurrently once it is no longer written.
package imaging
