package classify

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/EdlinOrg/prominentcolor"
)

// Swatches returns the k-means prominent colours of a garment image as "#rrggbb",
// most frequent first. They are shown next to the canonical label and take no part
// in classification.
func Swatches(img image.Image) ([]string, error) {
	if img == nil {
		return nil, errors.New("no image")
	}

	colors, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return nil, fmt.Errorf("unable to extract prominent colors: %w", err)
	}

	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Cnt > colors[j].Cnt
	})

	hexes := make([]string, 0, len(colors))
	for i := range colors {
		hexes = append(hexes, "#"+strings.ToLower(colors[i].AsString()))
	}
	return hexes, nil
}
