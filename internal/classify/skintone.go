package classify

import (
	"image"
	"math"

	"github.com/kozaktomas/outfit-matcher/internal/picture"
	"gonum.org/v1/gonum/stat"
)

// SkinTone is a brightness band of detected skin pixels.
type SkinTone string

const (
	ToneFair    SkinTone = "Fair"
	ToneMedium  SkinTone = "Medium"
	ToneOlive   SkinTone = "Olive"
	ToneDark    SkinTone = "Dark"
	ToneUnknown SkinTone = "Unknown"
)

// ParseSkinTone maps a stored label back to a SkinTone. Unrecognised labels are Unknown.
func ParseSkinTone(s string) SkinTone {
	switch t := SkinTone(s); t {
	case ToneFair, ToneMedium, ToneOlive, ToneDark:
		return t
	}
	return ToneUnknown
}

// skinSize is the side of the working copy the HSV band is calibrated for.
const skinSize = 200

// HSV band on the 8-bit scale (hue 0-180, saturation and value 0-255), inclusive.
const (
	skinHueMin, skinHueMax               = 0, 20
	skinSaturationMin, skinSaturationMax = 30, 170
	skinValueMin, skinValueMax           = 60, 255
)

// Brightness band lower bounds, exclusive, checked from the top down.
const (
	fairAbove   = 180.0
	mediumAbove = 140.0
	oliveAbove  = 100.0
)

// DetectSkinTone classifies a face image. A nil image or one without any pixel in
// the skin band is Unknown.
func DetectSkinTone(img image.Image) SkinTone {
	if img == nil || img.Bounds().Empty() {
		return ToneUnknown
	}

	brightness, ok := SkinBrightness(img)
	if !ok {
		return ToneUnknown
	}
	return ToneForBrightness(brightness)
}

// ToneForBrightness maps a mean skin brightness onto its band.
func ToneForBrightness(brightness float64) SkinTone {
	switch {
	case brightness > fairAbove:
		return ToneFair
	case brightness > mediumAbove:
		return ToneMedium
	case brightness > oliveAbove:
		return ToneOlive
	default:
		return ToneDark
	}
}

// SkinBrightness resizes img to the calibrated working size, selects the pixels inside
// the skin HSV band and returns the mean of all their channel values. ok is false
// when no pixel qualifies.
func SkinBrightness(img image.Image) (brightness float64, ok bool) {
	work := picture.Resize(img, skinSize, skinSize)
	bounds := work.Bounds()

	var values []float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := work.RGBAAt(x, y)
			if !InSkinBand(px.R, px.G, px.B) {
				continue
			}
			values = append(values, float64(px.R), float64(px.G), float64(px.B))
		}
	}

	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// InSkinBand reports whether an 8-bit RGB pixel falls inside the skin mask.
func InSkinBand(r, g, b uint8) bool {
	h, s, v := HSV8(r, g, b)
	return h >= skinHueMin && h <= skinHueMax &&
		s >= skinSaturationMin && s <= skinSaturationMax &&
		v >= skinValueMin && v <= skinValueMax
}

// HSV8 converts an RGB pixel to hue in [0,180) and saturation/value in [0,255],
// each rounded to the nearest integer.
func HSV8(r, g, b uint8) (h, s, v float64) {
	c := RGBColor{r, g, b}.Colorful()
	hue, sat, val := c.Hsv()
	return math.Round(hue / 2), math.Round(sat * 255), math.Round(val * 255)
}
