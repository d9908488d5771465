package outfit

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/palette"
)

type countingMatcher struct {
	calls int
}

func (m *countingMatcher) BestMatch(top, bottom string) ([]string, string) {
	m.calls++
	return []string{"#000000"}, "label " + top + "/" + bottom
}

func TestGenerate_EndToEnd(t *testing.T) {
	catalog := palette.NewCatalog([]palette.Record{
		{Name: "Blue Sky", Hex: "#87ceeb", Combinations: []int{7}},
		{Name: "Beige Sand", Hex: "#d8c8a0", Combinations: []int{7}},
	})
	g := NewGenerator(palette.NewMatcher(catalog), DefaultRules())

	tops := Collection{}.Add(classify.Blue, "t1.jpg")
	bottoms := Collection{}.Add(classify.Beige, "b1.jpg")

	pairings := g.Generate(classify.ToneMedium, FaceSquare, tops, bottoms)

	if len(pairings) != 1 {
		t.Fatalf("expected 1 pairing, got %d", len(pairings))
	}
	p := pairings[0]
	if p.TopColor != classify.Blue || p.BottomColor != classify.Beige {
		t.Errorf("unexpected colours %s/%s", p.TopColor, p.BottomColor)
	}
	if p.TopImage != "t1.jpg" || p.BottomImage != "b1.jpg" {
		t.Errorf("unexpected images %s/%s", p.TopImage, p.BottomImage)
	}
	for _, want := range []string{"Blue suits Medium skin", "Open collars and layered outfits suit you", "Sanzo Wada Palette #7"} {
		if !strings.Contains(p.Reason, want) {
			t.Errorf("reason %q does not contain %q", p.Reason, want)
		}
	}
	if !reflect.DeepEqual(p.PaletteColors, []string{"#87ceeb", "#d8c8a0"}) {
		t.Errorf("unexpected palette colours %v", p.PaletteColors)
	}
}

func TestGenerate_PreferenceFilter(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())

	tops := Collection{}.Add(classify.Navy, "a.jpg").Add(classify.Red, "b.jpg")
	bottoms := Collection{}.
		Add(classify.Beige, "c.jpg").
		Add(classify.Black, "d.jpg").
		Add(classify.Beige, "e.jpg")

	pairings := g.Generate(classify.ToneFair, FaceOval, tops, bottoms)

	if len(pairings) != 3 {
		t.Fatalf("expected 3 pairings, got %d", len(pairings))
	}
	for _, p := range pairings {
		if p.TopColor != classify.Navy {
			t.Errorf("expected only Navy tops, got %s", p.TopColor)
		}
	}
}

func TestGenerate_FallbackToAllTops(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())

	tops := Collection{}.
		Add(classify.Red, "r1.jpg").
		Add(classify.Black, "k1.jpg").
		Add(classify.Red, "r2.jpg")
	bottoms := Collection{}.Add(classify.Beige, "c.jpg").Add(classify.Brown, "d.jpg")

	// Fair prefers Navy and Blue; neither is present.
	pairings := g.Generate(classify.ToneFair, FaceOval, tops, bottoms)

	// (2 red + 1 black) x (1 beige + 1 brown)
	if len(pairings) != 6 {
		t.Fatalf("expected 6 pairings, got %d", len(pairings))
	}
}

func TestGenerate_Order(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())

	tops := Collection{}.Add(classify.Blue, "t1").Add(classify.Green, "t2").Add(classify.Blue, "t3")
	bottoms := Collection{}.Add(classify.Beige, "b1").Add(classify.Black, "b2").Add(classify.Beige, "b3")

	pairings := g.Generate(classify.ToneMedium, FaceOval, tops, bottoms)

	var got []string
	for _, p := range pairings {
		got = append(got, p.TopImage+"+"+p.BottomImage)
	}
	want := []string{
		"t1+b1", "t1+b3", "t3+b1", "t3+b3", "t1+b2", "t3+b2",
		"t2+b1", "t2+b3", "t2+b2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestGenerate_MatcherCalledPerPairing(t *testing.T) {
	m := &countingMatcher{}
	g := NewGenerator(m, DefaultRules())

	tops := Collection{}.Add(classify.Blue, "t1").Add(classify.Blue, "t2")
	bottoms := Collection{}.Add(classify.Beige, "b1").Add(classify.Beige, "b2")

	pairings := g.Generate(classify.ToneMedium, FaceOval, tops, bottoms)

	if m.calls != len(pairings) || m.calls != 4 {
		t.Errorf("expected 4 matcher calls, got %d for %d pairings", m.calls, len(pairings))
	}
}

func TestGenerate_EmptyWardrobe(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())
	some := Collection{}.Add(classify.Blue, "x.jpg")

	for name, tc := range map[string][2]Collection{
		"no tops":    {nil, some},
		"no bottoms": {some, nil},
		"neither":    {nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			pairings := g.Generate(classify.ToneMedium, FaceOval, tc[0], tc[1])
			if pairings == nil || len(pairings) != 0 {
				t.Errorf("expected empty non-nil result, got %v", pairings)
			}
		})
	}
}

func TestGenerate_UnknownFaceShape(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())

	tops := Collection{}.Add(classify.Blue, "t1")
	bottoms := Collection{}.Add(classify.Beige, "b1")

	pairings := g.Generate(classify.ToneUnknown, FaceShape("Heart"), tops, bottoms)

	want := "Blue suits Unknown skin •  • label Blue/Beige"
	if pairings[0].Reason != want {
		t.Errorf("expected %q, got %q", want, pairings[0].Reason)
	}
}

func TestGenerate_UnknownToneUsesAllTops(t *testing.T) {
	g := NewGenerator(&countingMatcher{}, DefaultRules())

	tops := Collection{}.Add(classify.Navy, "t1").Add(classify.Uncertain, "t2")
	bottoms := Collection{}.Add(classify.Beige, "b1")

	if n := len(g.Generate(classify.ToneUnknown, FaceOval, tops, bottoms)); n != 2 {
		t.Errorf("expected 2 pairings, got %d", n)
	}
}

func TestCollection_Add(t *testing.T) {
	c := Collection{}.
		Add(classify.Red, "1").
		Add(classify.Blue, "2").
		Add(classify.Red, "3")

	if len(c) != 2 || c[0].Color != classify.Red || c[1].Color != classify.Blue {
		t.Fatalf("unexpected buckets %+v", c)
	}
	if !reflect.DeepEqual(c.Paths(classify.Red), []string{"1", "3"}) {
		t.Errorf("unexpected red paths %v", c.Paths(classify.Red))
	}
	if c.Paths(classify.Green) != nil {
		t.Error("expected nil for absent colour")
	}
	if c.Count() != 3 {
		t.Errorf("expected count 3, got %d", c.Count())
	}
}

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		tone  classify.SkinTone
		color classify.ColorName
		want  bool
	}{
		{classify.ToneFair, classify.Navy, true},
		{classify.ToneFair, classify.Red, false},
		{classify.ToneMedium, classify.Green, true},
		{classify.ToneOlive, classify.Mustard, true},
		{classify.ToneDark, classify.White, true},
		{classify.ToneUnknown, classify.Blue, false},
	}
	for _, tt := range tests {
		if got := r.Preferred(tt.tone, tt.color); got != tt.want {
			t.Errorf("Preferred(%s, %s) = %v, want %v", tt.tone, tt.color, got, tt.want)
		}
	}

	if r.Advice(FaceOval) != "Most styles work well" {
		t.Errorf("unexpected oval advice %q", r.Advice(FaceOval))
	}
	if r.Advice(FaceRectangular) != "Contrast tops balance face length" {
		t.Errorf("unexpected rectangular advice %q", r.Advice(FaceRectangular))
	}
	if !reflect.DeepEqual(r.FaceShapeNames(), []FaceShape{FaceOval, FaceSquare, FaceDiamond, FaceRectangular}) {
		t.Errorf("unexpected face shapes %v", r.FaceShapeNames())
	}
}

func TestParseRules_Invalid(t *testing.T) {
	if _, err := ParseRules([]byte("skin_tones: [")); err == nil {
		t.Error("expected parse error")
	}
}
