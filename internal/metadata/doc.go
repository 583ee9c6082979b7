// Package metadata reads EXIF tags from RAW files and derives the camera and
// lens record the editor keeps per session.
//
// Readers produce a Map keyed by "<group> <tag>", for example "Image Make",
// "EXIF FocalLength" or "GPS GPSLatitude". Readers never fail: on any read or
// parse error they log a diagnostic and return an empty Map, so metadata
// problems degrade to defaults and never block editing.
package metadata
