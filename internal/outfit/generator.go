// Package outfit enumerates top/bottom pairings from a classified wardrobe.
package outfit

import (
	"fmt"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
)

// Bucket holds the image paths classified under one colour, in upload order.
type Bucket struct {
	Color classify.ColorName `json:"color"`
	Paths []string           `json:"paths"`
}

// Collection is a wardrobe section grouped by colour. Bucket order is the order
// in which each colour was first seen.
type Collection []Bucket

// Add appends path to the bucket for color, creating the bucket when needed.
func (c Collection) Add(color classify.ColorName, path string) Collection {
	for i := range c {
		if c[i].Color == color {
			c[i].Paths = append(c[i].Paths, path)
			return c
		}
	}
	return append(c, Bucket{Color: color, Paths: []string{path}})
}

// Paths returns the paths for color, or nil.
func (c Collection) Paths(color classify.ColorName) []string {
	for _, b := range c {
		if b.Color == color {
			return b.Paths
		}
	}
	return nil
}

// Count returns the number of images in the collection.
func (c Collection) Count() int {
	n := 0
	for _, b := range c {
		n += len(b.Paths)
	}
	return n
}

// Pairing is one candidate outfit.
type Pairing struct {
	TopColor      classify.ColorName `json:"top_color"`
	BottomColor   classify.ColorName `json:"bottom_color"`
	TopImage      string             `json:"top_img"`
	BottomImage   string             `json:"bottom_img"`
	PaletteColors []string           `json:"palette_colors"`
	Reason        string             `json:"reason"`
}

// PaletteMatcher picks a colour palette for a top/bottom colour pair.
type PaletteMatcher interface {
	BestMatch(top, bottom string) ([]string, string)
}

// Generator builds pairings. It holds no per-user state and is safe for
// concurrent use once constructed.
type Generator struct {
	matcher PaletteMatcher
	rules   Rules
}

// NewGenerator returns a generator using matcher for palettes and rules for styling.
func NewGenerator(matcher PaletteMatcher, rules Rules) *Generator {
	return &Generator{matcher: matcher, rules: rules}
}

// Rules returns the styling rules the generator applies.
func (g *Generator) Rules() Rules {
	return g.rules
}

// PreferredTops returns the top buckets flattering tone, in collection order.
// When none match, every top bucket is returned.
func (g *Generator) PreferredTops(tone classify.SkinTone, tops Collection) Collection {
	var selected Collection
	for _, b := range tops {
		if g.rules.Preferred(tone, b.Color) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return tops
	}
	return selected
}

// Generate returns every pairing of the selected tops with every bottom, ordered
// top colour, bottom colour, top image, bottom image.
func (g *Generator) Generate(tone classify.SkinTone, shape FaceShape, tops, bottoms Collection) []Pairing {
	if tops.Count() == 0 || bottoms.Count() == 0 {
		return []Pairing{}
	}

	advice := g.rules.Advice(shape)
	pairings := []Pairing{}

	for _, top := range g.PreferredTops(tone, tops) {
		for _, bottom := range bottoms {
			for _, topImg := range top.Paths {
				for _, bottomImg := range bottom.Paths {
					hexes, label := g.matcher.BestMatch(string(top.Color), string(bottom.Color))
					pairings = append(pairings, Pairing{
						TopColor:      top.Color,
						BottomColor:   bottom.Color,
						TopImage:      topImg,
						BottomImage:   bottomImg,
						PaletteColors: hexes,
						Reason:        fmt.Sprintf("%s suits %s skin • %s • %s", top.Color, tone, advice, label),
					})
				}
			}
		}
	}

	return pairings
}
