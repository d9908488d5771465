package classify

import (
	"image"

	"github.com/kozaktomas/outfit-matcher/internal/picture"
	"gonum.org/v1/gonum/stat"
)

const (
	// UncertainDistance is the smallest nearest-match distance reported as Uncertain.
	UncertainDistance = 70.0

	// dominantSize is the side of the working copy used for averaging.
	dominantSize = 150
)

// GarmentColor is the outcome of classifying a clothing image.
type GarmentColor struct {
	Name     ColorName  `json:"name"`
	Mean     [3]float64 `json:"mean"`
	Distance float64    `json:"distance"`
}

// DominantColor returns the canonical colour name of a garment image, or Uncertain
// when the image is nil or its average colour is too far from every reference.
func DominantColor(img image.Image) ColorName {
	return ClassifyGarment(img).Name
}

// ClassifyGarment is DominantColor with the intermediate values exposed.
func ClassifyGarment(img image.Image) GarmentColor {
	if img == nil || img.Bounds().Empty() {
		return GarmentColor{Name: Uncertain}
	}

	mean := MeanRGB(picture.Resize(img, dominantSize, dominantSize))
	nearest, dist := Nearest(mean)

	name := nearest.Name
	if dist >= UncertainDistance {
		name = Uncertain
	}
	return GarmentColor{Name: name, Mean: mean, Distance: dist}
}

// MeanRGB averages each channel over every pixel of img.
func MeanRGB(img *image.RGBA) [3]float64 {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return [3]float64{}
	}

	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.RGBAAt(x, y)
			rs = append(rs, float64(px.R))
			gs = append(gs, float64(px.G))
			bs = append(bs, float64(px.B))
		}
	}

	return [3]float64{stat.Mean(rs, nil), stat.Mean(gs, nil), stat.Mean(bs, nil)}
}
