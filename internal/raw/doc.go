// Package raw turns RAW sensor files into 8-bit RGB rasters and writes edited
// rasters back out as JPEG.
//
// Decoding is delegated to an external backend selected by name:
//   - "dcraw": runs the dcraw executable and reads its TIFF output
//   - "image": decodes already-developed PNG, JPEG, GIF or TIFF files
//   - "imagick": ImageMagick bindings, available when built with -tags imagick
//
// Every decode failure wraps ErrDecode.
package raw
