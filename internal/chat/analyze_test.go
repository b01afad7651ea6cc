package chat

import (
	"strings"
	"testing"
)

func TestParseAnalysisPlainJSON(t *testing.T) {
	raw := `{
		"product_type": "board game",
		"name_suggestion": "Logique et Couleurs",
		"materials": "cardboard, wood",
		"colors": "green, birch",
		"dimensions_estimate": "30x30cm",
		"shape": "square box",
		"key_features": "printed animal cards",
		"texture": "matte",
		"components": "48 cards, 1 spinner",
		"age_group": "4-8"
	}`

	a := parseAnalysis(raw)
	if a.ProductType != "board game" {
		t.Errorf("ProductType = %q", a.ProductType)
	}
	if a.NameSuggestion != "Logique et Couleurs" {
		t.Errorf("NameSuggestion = %q", a.NameSuggestion)
	}
	if a.Components != "48 cards, 1 spinner" {
		t.Errorf("Components = %q", a.Components)
	}
	if a.RawDescription != raw {
		t.Error("RawDescription should carry the raw response")
	}
}

func TestParseAnalysisNormalizesNonStrings(t *testing.T) {
	// The model occasionally ignores the "strings only" rule.
	raw := `{
		"product_type": "puzzle",
		"name_suggestion": "Formes",
		"materials": ["wood", "felt"],
		"colors": {"primary": "green", "secondary": "white"},
		"dimensions_estimate": 30,
		"key_features": ["interlocking pieces", {"detail": "rounded edges"}]
	}`

	a := parseAnalysis(raw)
	if a.Materials != "wood, felt" {
		t.Errorf("Materials = %q", a.Materials)
	}
	if !strings.Contains(a.Colors, "green") || !strings.Contains(a.Colors, "white") {
		t.Errorf("Colors = %q", a.Colors)
	}
	if a.DimensionsEstimate != "30" {
		t.Errorf("DimensionsEstimate = %q", a.DimensionsEstimate)
	}
	if !strings.Contains(a.KeyFeatures, "interlocking pieces") ||
		!strings.Contains(a.KeyFeatures, "rounded edges") {
		t.Errorf("KeyFeatures = %q", a.KeyFeatures)
	}
}

func TestParseAnalysisFencedJSON(t *testing.T) {
	raw := "```json\n{\"product_type\": \"game\", \"name_suggestion\": \"Test\"}\n```"

	a := parseAnalysis(raw)
	if a.ProductType != "game" {
		t.Errorf("ProductType = %q", a.ProductType)
	}
}

func TestParseAnalysisNoJSONFallsBack(t *testing.T) {
	raw := "This is a wooden stacking toy with green and natural tones."

	a := parseAnalysis(raw)
	if a.ProductType != "unknown" {
		t.Errorf("ProductType = %q, want unknown", a.ProductType)
	}
	if a.Materials != raw || a.KeyFeatures != raw || a.RawDescription != raw {
		t.Error("fallback should carry the raw text in materials, key features, and raw description")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
}
