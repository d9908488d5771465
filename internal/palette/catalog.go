// Package palette indexes the Sanzo Wada colour combinations and picks the palette
// that best fits a top/bottom colour pair.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
)

// Palette identifiers present in the reference dataset.
const (
	MinPaletteID = 1
	MaxPaletteID = 348
)

// Record is one colour of the source dataset together with the palettes it belongs to.
type Record struct {
	Name         string `json:"name"`
	Hex          string `json:"hex"`
	Combinations []int  `json:"combinations"`
}

// Entry is one swatch of a palette.
type Entry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is a numbered, ordered set of swatches.
type Palette struct {
	ID      int     `json:"id"`
	Entries []Entry `json:"entries"`
}

// Hexes returns the hex values of the palette in stored order.
func (p Palette) Hexes() []string {
	hexes := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		hexes[i] = e.Hex
	}
	return hexes
}

// Catalog is an immutable index of palettes in ascending identifier order.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	palettes []Palette
	byID     map[int]int
}

// NewCatalog builds the catalog from source records. Every identifier in
// MinPaletteID..MaxPaletteID collects the records listing it, in record order;
// identifiers without records are left out. Records are kept even when their hex
// value does not parse; consumers that draw colours validate them.
func NewCatalog(records []Record) *Catalog {
	members := make(map[int][]Entry)
	for _, rec := range records {
		if _, err := colorful.Hex(rec.Hex); err != nil {
			log.Debug().Str("name", rec.Name).Str("hex", rec.Hex).Msg("palette color has an invalid hex value")
		}
		entry := Entry{Name: rec.Name, Hex: rec.Hex}
		seen := make(map[int]bool, len(rec.Combinations))
		for _, id := range rec.Combinations {
			if id < MinPaletteID || id > MaxPaletteID || seen[id] {
				continue
			}
			seen[id] = true
			members[id] = append(members[id], entry)
		}
	}

	c := &Catalog{byID: make(map[int]int, len(members))}
	for id := MinPaletteID; id <= MaxPaletteID; id++ {
		entries, ok := members[id]
		if !ok {
			continue
		}
		c.byID[id] = len(c.palettes)
		c.palettes = append(c.palettes, Palette{ID: id, Entries: entries})
	}
	return c
}

// Lookup returns the palette with the given identifier.
func (c *Catalog) Lookup(id int) (Palette, bool) {
	if c == nil {
		return Palette{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Palette{}, false
	}
	return c.palettes[idx], true
}

// All returns every palette in ascending identifier order. The slice is a copy;
// the palettes themselves must be treated as read-only.
func (c *Catalog) All() []Palette {
	if c == nil {
		return nil
	}
	out := make([]Palette, len(c.palettes))
	copy(out, c.palettes)
	return out
}

// Len returns the number of palettes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.palettes)
}

// Empty reports whether the catalog holds no palettes.
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}
