// Package classify turns decoded images into the colour labels used for outfit pairing:
// a skin-tone category for face photos and a canonical colour name for garments.
package classify

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// ColorName is a canonical garment colour label.
type ColorName string

const (
	Black   ColorName = "Black"
	White   ColorName = "White"
	Navy    ColorName = "Navy"
	Blue    ColorName = "Blue"
	Green   ColorName = "Green"
	Olive   ColorName = "Olive"
	Beige   ColorName = "Beige"
	Brown   ColorName = "Brown"
	Mustard ColorName = "Mustard"
	Red     ColorName = "Red"

	// Uncertain is reported when no reference colour is close enough.
	Uncertain ColorName = "Uncertain"
)

// RGBColor holds 8-bit red, green and blue channel values.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Colorful converts the value to a go-colorful colour.
func (c RGBColor) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the colour as "#rrggbb".
func (c RGBColor) Hex() string {
	return c.Colorful().Hex()
}

func (c RGBColor) vector() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

// NamedColor pairs a canonical name with its reference value.
type NamedColor struct {
	Name      ColorName `json:"name"`
	Reference RGBColor  `json:"reference"`
}

// namedColors is scanned in this order; the first entry at the minimum distance wins.
var namedColors = [...]NamedColor{
	{Black, RGBColor{20, 20, 20}},
	{White, RGBColor{240, 240, 240}},
	{Navy, RGBColor{20, 40, 80}},
	{Blue, RGBColor{60, 100, 180}},
	{Green, RGBColor{50, 120, 60}},
	{Olive, RGBColor{85, 107, 47}},
	{Beige, RGBColor{245, 245, 200}},
	{Brown, RGBColor{101, 67, 33}},
	{Mustard, RGBColor{205, 173, 0}},
	{Red, RGBColor{160, 40, 40}},
}

// NamedColors returns a copy of the reference table in scan order.
func NamedColors() []NamedColor {
	out := make([]NamedColor, len(namedColors))
	copy(out, namedColors[:])
	return out
}

// LookupColor returns the table entry for name.
func LookupColor(name ColorName) (NamedColor, bool) {
	for _, nc := range namedColors {
		if nc.Name == name {
			return nc, true
		}
	}
	return NamedColor{}, false
}

// Nearest returns the table entry closest to mean (Euclidean RGB distance on the
// 0-255 scale) together with that distance.
func Nearest(mean [3]float64) (NamedColor, float64) {
	v := mean[:]
	best := namedColors[0]
	bestDist := floats.Distance(v, best.Reference.vector(), 2)
	for _, nc := range namedColors[1:] {
		d := floats.Distance(v, nc.Reference.vector(), 2)
		if d < bestDist {
			best, bestDist = nc, d
		}
	}
	return best, bestDist
}
