package outfit

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// FaceShape is the user's self-reported face shape.
type FaceShape string

const (
	FaceOval        FaceShape = "Oval"
	FaceSquare      FaceShape = "Square"
	FaceDiamond     FaceShape = "Diamond"
	FaceRectangular FaceShape = "Rectangular"
)

// DefaultFaceShape is assumed when the user never picked one.
const DefaultFaceShape = FaceOval

// Rules holds the styling lookup tables.
type Rules struct {
	SkinTones  map[classify.SkinTone][]classify.ColorName `yaml:"skin_tones"`
	FaceShapes map[FaceShape]string                       `yaml:"face_shapes"`
}

// ParseRules decodes a rules document.
func ParseRules(data []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("failed to parse styling rules: %w", err)
	}
	return r, nil
}

// LoadRules reads a rules document from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return ParseRules(data)
}

// DefaultRules returns the embedded styling rules.
func DefaultRules() Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		// Embedded file, so this only fails on a broken build.
		panic(err.Error())
	}
	return r
}

// Preferred reports whether color flatters tone.
func (r Rules) Preferred(tone classify.SkinTone, color classify.ColorName) bool {
	for _, c := range r.SkinTones[tone] {
		if c == color {
			return true
		}
	}
	return false
}

// Advice returns the face-shape advice, or "" for an unrecognised shape.
func (r Rules) Advice(shape FaceShape) string {
	return r.FaceShapes[shape]
}

// FaceShapeNames lists the face shapes that carry advice.
func (r Rules) FaceShapeNames() []FaceShape {
	names := make([]FaceShape, 0, len(r.FaceShapes))
	for _, s := range []FaceShape{FaceOval, FaceSquare, FaceDiamond, FaceRectangular} {
		if _, ok := r.FaceShapes[s]; ok {
			names = append(names, s)
		}
	}
	for s := range r.FaceShapes {
		if !containsShape(names, s) {
			names = append(names, s)
		}
	}
	return names
}

func containsShape(shapes []FaceShape, s FaceShape) bool {
	for _, v := range shapes {
		if v == s {
			return true
		}
	}
	return false
}
