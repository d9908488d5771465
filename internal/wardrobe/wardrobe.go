// Package wardrobe keeps the per-session state: the detected skin tone, the chosen
// face shape and the classified tops and bottoms.
package wardrobe

import (
	"fmt"
	"time"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
)

// Kind is a wardrobe section.
type Kind string

const (
	KindTops    Kind = "tops"
	KindBottoms Kind = "bottoms"
)

// ParseKind validates a wardrobe section name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTops, KindBottoms:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown clothing type %q", s)
}

// Item is one classified garment image.
type Item struct {
	Path     string             `json:"path"`
	Color    classify.ColorName `json:"color"`
	Swatches []string           `json:"swatches,omitempty"`
}

// Session is everything known about one user.
type Session struct {
	ID        string            `json:"id"`
	SkinTone  classify.SkinTone `json:"skin_tone"`
	FacePath  string            `json:"face_path,omitempty"`
	FaceShape outfit.FaceShape  `json:"face_shape,omitempty"`
	Tops      []Item            `json:"tops"`
	Bottoms   []Item            `json:"bottoms"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns an empty session with an unknown skin tone.
func NewSession(id string) *Session {
	return &Session{ID: id, SkinTone: classify.ToneUnknown, UpdatedAt: time.Now()}
}

// Add appends items to the given section.
func (s *Session) Add(kind Kind, items ...Item) {
	switch kind {
	case KindTops:
		s.Tops = append(s.Tops, items...)
	case KindBottoms:
		s.Bottoms = append(s.Bottoms, items...)
	}
	s.UpdatedAt = time.Now()
}

// Items returns the items of one section.
func (s *Session) Items(kind Kind) []Item {
	if kind == KindTops {
		return s.Tops
	}
	return s.Bottoms
}

// Tone returns the stored skin tone, Unknown when none was detected.
func (s *Session) Tone() classify.SkinTone {
	if s.SkinTone == "" {
		return classify.ToneUnknown
	}
	return s.SkinTone
}

// Shape returns the stored face shape, Oval when none was chosen.
func (s *Session) Shape() outfit.FaceShape {
	if s.FaceShape == "" {
		return outfit.DefaultFaceShape
	}
	return s.FaceShape
}

// Collections groups both sections by colour for pairing.
func (s *Session) Collections() (tops, bottoms outfit.Collection) {
	return GroupByColor(s.Tops), GroupByColor(s.Bottoms)
}

// Reset clears the wardrobe but keeps the face analysis.
func (s *Session) Reset() {
	s.Tops = nil
	s.Bottoms = nil
	s.UpdatedAt = time.Now()
}

// GroupByColor buckets items by colour, keeping first-seen colour order and
// item order within each bucket.
func GroupByColor(items []Item) outfit.Collection {
	var c outfit.Collection
	for _, it := range items {
		c = c.Add(it.Color, it.Path)
	}
	return c
}
