package metadata

import (
	"strconv"
	"strings"
)

// Tag keys read by ParseCameraLensInfo.
const (
	KeyMake        = "Image Make"
	KeyModel       = "Image Model"
	KeyLensModel   = "EXIF LensModel"
	KeyFocalLength = "EXIF FocalLength"
	KeyFNumber     = "EXIF FNumber"
)

// Fallbacks used when the focal length or f-number is missing or unparsable.
const (
	DefaultFocalLengthMm = 50.0
	DefaultFNumber       = 2.8
)

// CameraLensInfo is the camera and lens record used for lens-profile lookup.
type CameraLensInfo struct {
	Make          string  `json:"make"`
	Model         string  `json:"model"`
	LensModel     string  `json:"lens_model"`
	FocalLengthMm float64 `json:"focal_length_mm"`
	FNumber       float64 `json:"f_number"`
}

// ParseCameraLensInfo derives CameraLensInfo from a metadata mapping. It never
// fails: missing strings become empty, and the focal length and f-number fall
// back to DefaultFocalLengthMm and DefaultFNumber.
//
// The focal length is read from the first whitespace-delimited token of its tag
// ("56.0 mm" gives 56). The f-number is the whole tag value parsed as a float.
// Rational text such as "28/5" is not a float and falls back to the default;
// readers render single rationals as decimals before they reach this point.
func ParseCameraLensInfo(m Map) CameraLensInfo {
	info := CameraLensInfo{
		Make:          strings.TrimSpace(m[KeyMake]),
		Model:         strings.TrimSpace(m[KeyModel]),
		LensModel:     strings.TrimSpace(m[KeyLensModel]),
		FocalLengthMm: DefaultFocalLengthMm,
		FNumber:       DefaultFNumber,
	}

	if fields := strings.Fields(m[KeyFocalLength]); len(fields) > 0 {
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
			info.FocalLengthMm = v
		}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(m[KeyFNumber]), 64); err == nil {
		info.FNumber = v
	}

	return info
}
