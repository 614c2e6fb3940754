package help

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/sambeau/unitx/pkg/unitx/units"
)

func TestDescribeTopicKinds(t *testing.T) {
	tests := []struct {
		topic    string
		wantKind string
		wantName string
	}{
		{"units", "category-list", "units"},
		{"categories", "category-list", "units"},
		{"keywords", "keyword-list", "keywords"},
		{"operators", "operator-list", "operators"},
		{"length", "category", "length"},
		{"temperature", "category", "temperature"},
		{"km", "unit", "km"},
		{"  MB  ", "unit", "MB"},
		{"時", "unit", "時"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			result, err := DescribeTopic(tt.topic, nil, language.English)
			if err != nil {
				t.Fatalf("DescribeTopic(%q) returned error: %v", tt.topic, err)
			}
			if result.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", result.Kind, tt.wantKind)
			}
			if result.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", result.Name, tt.wantName)
			}
		})
	}
}

func TestDescribeCategories(t *testing.T) {
	result, err := DescribeTopic("units", units.Default(), language.English)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Categories) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(result.Categories))
	}
	first := result.Categories[0]
	if first.ID != "length" || first.Base != "m" {
		t.Errorf("first category = %+v, want length with base m", first)
	}
}

func TestDescribeCategory(t *testing.T) {
	result, err := DescribeTopic("temperature", nil, language.English)
	if err != nil {
		t.Fatal(err)
	}
	if result.Base != "K" {
		t.Errorf("Base = %q, want K", result.Base)
	}

	var celsius *UnitEntry
	for i := range result.Units {
		if result.Units[i].Symbol == "C" {
			celsius = &result.Units[i]
		}
	}
	if celsius == nil {
		t.Fatal("C missing from temperature")
	}
	if celsius.Kind != "affine" || celsius.Offset != 273.15 {
		t.Errorf("C = %+v, want affine with offset 273.15", *celsius)
	}
}

func TestDescribeLocalized(t *testing.T) {
	result, err := DescribeTopic("km", nil, language.Japanese)
	if err != nil {
		t.Fatal(err)
	}
	if result.Category != "長さ" {
		t.Errorf("Category = %q, want 長さ", result.Category)
	}
}

func TestDescribeUnknown(t *testing.T) {
	_, err := DescribeTopic("lenght", nil, language.English)
	if err == nil {
		t.Fatal("expected error for unknown topic")
	}
	if !strings.Contains(err.Error(), `did you mean "length"`) {
		t.Errorf("error should suggest length, got: %v", err)
	}

	if _, err := DescribeTopic("", nil, language.English); err == nil {
		t.Error("expected error for empty topic")
	}
}

func TestFormatText(t *testing.T) {
	tests := []struct {
		topic string
		want  []string
	}{
		{"length", []string{"Category: length", "Base unit: m", "1 km = 1000 m"}},
		{"temperature", []string{"x C = x*1 + 273.15 K"}},
		{"B", []string{"Unit: B", "Category: data size", "1 B = 1 B"}},
		{"keywords", []string{"Keywords:", "rep(i, n) stmt"}},
		{"operators", []string{"Operators:", "{a->b}"}},
		{"units", []string{"Unit categories:", "temperature", "(data size)"}},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			result, err := DescribeTopic(tt.topic, nil, language.English)
			if err != nil {
				t.Fatal(err)
			}
			text := FormatText(result, 80)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("output missing %q:\n%s", want, text)
				}
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	result, err := DescribeTopic("km", nil, language.English)
	if err != nil {
		t.Fatal(err)
	}
	data, err := FormatJSON(result)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["kind"] != "unit" || decoded["category"] != "length" {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestWrapWords(t *testing.T) {
	got := wrapWords("  x  ", []string{"aa", "bb", "cc"}, 11)
	want := "  x  aa bb\n     cc\n"
	if got != want {
		t.Errorf("wrapWords = %q, want %q", got, want)
	}
}
