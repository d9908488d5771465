package palette

import (
	"fmt"
	"strings"
)

// Fallback labels.
const (
	LabelUnavailable = "catalog unavailable"
	LabelNatural     = "Natural tones"
)

var (
	unavailableHexes = []string{"#cccccc", "#aaaaaa"}
	naturalHexes     = []string{"#e0d4b8", "#a68a64"}
)

// Label names a catalog palette.
func Label(id int) string {
	return fmt.Sprintf("Sanzo Wada Palette #%d", id)
}

// Matcher finds the best catalog palette for a colour pair.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a matcher over catalog. A nil catalog is treated as empty.
func NewMatcher(catalog *Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// BestMatch returns the hex values and label of the largest palette having an entry
// whose name contains either colour name, case-insensitively. Equal sizes resolve to
// the lowest identifier. With an empty catalog the grey "catalog unavailable" pair is
// returned; when nothing matches, the "Natural tones" pair.
func (m *Matcher) BestMatch(top, bottom string) ([]string, string) {
	if m == nil || m.catalog.Empty() {
		return clone(unavailableHexes), LabelUnavailable
	}

	top = strings.ToLower(top)
	bottom = strings.ToLower(bottom)

	var best *Palette
	for i := range m.catalog.palettes {
		p := &m.catalog.palettes[i]
		if !mentions(p, top, bottom) {
			continue
		}
		if best == nil || len(p.Entries) > len(best.Entries) {
			best = p
		}
	}

	if best == nil {
		return clone(naturalHexes), LabelNatural
	}
	return best.Hexes(), Label(best.ID)
}

func mentions(p *Palette, top, bottom string) bool {
	for _, e := range p.Entries {
		name := strings.ToLower(e.Name)
		if strings.Contains(name, top) || strings.Contains(name, bottom) {
			return true
		}
	}
	return false
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
