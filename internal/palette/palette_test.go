package palette

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testRecords() []Record {
	return []Record{
		{Name: "Blue Sky", Hex: "#87ceeb", Combinations: []int{7, 12}},
		{Name: "Beige Sand", Hex: "#d8c8a0", Combinations: []int{7}},
		{Name: "Blueberry", Hex: "#4f86f7", Combinations: []int{12, 20}},
		{Name: "Olive Drab", Hex: "#6b8e23", Combinations: []int{20}},
		{Name: "Coral Red", Hex: "#ff4040", Combinations: []int{20, 400, 0}},
	}
}

func TestNewCatalog_GroupsByIdentifier(t *testing.T) {
	c := NewCatalog(testRecords())

	if c.Len() != 3 {
		t.Fatalf("expected 3 palettes, got %d", c.Len())
	}

	p, ok := c.Lookup(7)
	if !ok {
		t.Fatal("expected palette 7")
	}
	want := []Entry{{"Blue Sky", "#87ceeb"}, {"Beige Sand", "#d8c8a0"}}
	if !reflect.DeepEqual(p.Entries, want) {
		t.Errorf("palette 7: expected %v, got %v", want, p.Entries)
	}

	p20, _ := c.Lookup(20)
	if got := p20.Hexes(); !reflect.DeepEqual(got, []string{"#4f86f7", "#6b8e23", "#ff4040"}) {
		t.Errorf("palette 20: unexpected hexes %v", got)
	}
}

func TestNewCatalog_AscendingOrder(t *testing.T) {
	c := NewCatalog(testRecords())

	var ids []int
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []int{7, 12, 20}) {
		t.Errorf("expected ids [7 12 20], got %v", ids)
	}
}

func TestNewCatalog_OutOfRangeIdentifiersIgnored(t *testing.T) {
	c := NewCatalog(testRecords())

	if _, ok := c.Lookup(400); ok {
		t.Error("identifier 400 is outside the dataset range")
	}
	if _, ok := c.Lookup(0); ok {
		t.Error("identifier 0 is outside the dataset range")
	}
	if _, ok := c.Lookup(1); ok {
		t.Error("identifier 1 has no records and must be omitted")
	}
}

func TestNewCatalog_DuplicateMembership(t *testing.T) {
	c := NewCatalog([]Record{{Name: "Ivory", Hex: "#fffff0", Combinations: []int{3, 3}}})

	p, _ := c.Lookup(3)
	if len(p.Entries) != 1 {
		t.Errorf("expected a single entry, got %d", len(p.Entries))
	}
}

func TestNewCatalog_InvalidHexKept(t *testing.T) {
	c := NewCatalog([]Record{
		{Name: "Broken", Hex: "not-a-color", Combinations: []int{5}},
		{Name: "Ivory", Hex: "#fffff0", Combinations: []int{5}},
	})

	p, _ := c.Lookup(5)
	want := []Entry{{"Broken", "not-a-color"}, {"Ivory", "#fffff0"}}
	if !reflect.DeepEqual(p.Entries, want) {
		t.Errorf("expected every member record, got %v", p.Entries)
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := NewCatalog(testRecords())

	all := c.All()
	all[0] = Palette{ID: 999}

	if p, _ := c.Lookup(7); p.ID != 7 {
		t.Error("mutating All() must not change the catalog")
	}
	if c.All()[0].ID != 7 {
		t.Error("mutating All() must not change the catalog order")
	}
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *Catalog

	if !c.Empty() || c.Len() != 0 || c.All() != nil {
		t.Error("nil catalog must behave as empty")
	}
	if _, ok := c.Lookup(7); ok {
		t.Error("nil catalog must not find anything")
	}
}

func TestBestMatch_EmptyCatalog(t *testing.T) {
	for _, m := range []*Matcher{NewMatcher(nil), NewMatcher(NewCatalog(nil))} {
		hexes, label := m.BestMatch("Blue", "Beige")

		if !reflect.DeepEqual(hexes, []string{"#cccccc", "#aaaaaa"}) {
			t.Errorf("expected grey fallback, got %v", hexes)
		}
		if label != LabelUnavailable {
			t.Errorf("expected %q, got %q", LabelUnavailable, label)
		}
	}
}

func TestBestMatch_LargestPaletteWins(t *testing.T) {
	m := NewMatcher(NewCatalog(testRecords()))

	// "olive" only appears in palette 20 (three entries); "blue" in 7, 12 and 20.
	hexes, label := m.BestMatch("Blue", "Olive")

	if label != "Sanzo Wada Palette #20" {
		t.Errorf("expected palette 20, got %q", label)
	}
	if !reflect.DeepEqual(hexes, []string{"#4f86f7", "#6b8e23", "#ff4040"}) {
		t.Errorf("unexpected hexes %v", hexes)
	}
}

func TestBestMatch_TieResolvesToLowestIdentifier(t *testing.T) {
	m := NewMatcher(NewCatalog(testRecords()))

	// "Blue Sky" sits in both palette 7 and palette 12, each with two entries.
	_, label := m.BestMatch("Sky", "Navy")

	if label != "Sanzo Wada Palette #7" {
		t.Errorf("expected palette 7 on tie, got %q", label)
	}
}

func TestBestMatch_SingleCandidate(t *testing.T) {
	m := NewMatcher(NewCatalog(testRecords()))

	hexes, label := m.BestMatch("Beige", "Navy")

	if label != "Sanzo Wada Palette #7" {
		t.Errorf("expected palette 7, got %q", label)
	}
	if !reflect.DeepEqual(hexes, []string{"#87ceeb", "#d8c8a0"}) {
		t.Errorf("unexpected hexes %v", hexes)
	}
}

func TestBestMatch_SubstringIsCaseInsensitive(t *testing.T) {
	m := NewMatcher(NewCatalog([]Record{
		{Name: "BLUEBERRY", Hex: "#4f86f7", Combinations: []int{2}},
	}))

	_, label := m.BestMatch("blue", "Beige")

	if label != "Sanzo Wada Palette #2" {
		t.Errorf("expected substring match on palette 2, got %q", label)
	}
}

func TestBestMatch_NoMatchNaturalTones(t *testing.T) {
	m := NewMatcher(NewCatalog(testRecords()))

	hexes, label := m.BestMatch("Mustard", "Brown")

	if label != LabelNatural {
		t.Errorf("expected %q, got %q", LabelNatural, label)
	}
	if !reflect.DeepEqual(hexes, []string{"#e0d4b8", "#a68a64"}) {
		t.Errorf("unexpected fallback hexes %v", hexes)
	}
}

func TestBestMatch_FallbackNotShared(t *testing.T) {
	m := NewMatcher(nil)

	first, _ := m.BestMatch("Blue", "Beige")
	first[0] = "#000000"

	second, _ := m.BestMatch("Blue", "Beige")
	if second[0] != "#cccccc" {
		t.Error("fallback hexes must not be shared between calls")
	}
}

const datasetJSON = `[
  {"name": "Blue Sky", "hex": "#87ceeb", "combinations": [7], "rgb": [135, 206, 235]},
  {"name": "Beige Sand", "hex": "#d8c8a0", "combinations": [7]}
]`

func TestParse(t *testing.T) {
	records, err := Parse([]byte(datasetJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[1].Name != "Beige Sand" || records[0].Combinations[0] != 7 {
		t.Errorf("unexpected records %+v", records)
	}

	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadCatalog_FromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(datasetJSON))
	}))
	defer server.Close()

	c := LoadCatalog(context.Background(), Source{URL: server.URL, Timeout: time.Second})

	if c.Len() != 1 {
		t.Fatalf("expected 1 palette, got %d", c.Len())
	}
}

func TestLoadCatalog_FromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	if err := os.WriteFile(path, []byte(datasetJSON), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	c := LoadCatalog(context.Background(), Source{Path: path, URL: "http://127.0.0.1:1/unused"})

	if _, ok := c.Lookup(7); !ok {
		t.Error("expected palette 7 from file")
	}
}

func TestLoadCatalog_ServerErrorYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := LoadCatalog(context.Background(), Source{URL: server.URL})

	if !c.Empty() {
		t.Error("expected empty catalog on server error")
	}
}

func TestLoadCatalog_BadJSONYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := LoadCatalog(context.Background(), Source{URL: server.URL})

	if !c.Empty() {
		t.Error("expected empty catalog on parse failure")
	}
}

func TestLoadCatalog_MissingFileYieldsEmpty(t *testing.T) {
	c := LoadCatalog(context.Background(), Source{Path: filepath.Join(t.TempDir(), "missing.json")})

	if !c.Empty() {
		t.Error("expected empty catalog for missing file")
	}
}

func TestFetch_EmptyURL(t *testing.T) {
	if _, err := Fetch(context.Background(), "", time.Second); err == nil {
		t.Error("expected error for empty URL")
	}
}
