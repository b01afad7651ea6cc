package prompt

import (
	"strings"
	"testing"
)

func TestBuildAnalyzePrompt(t *testing.T) {
	p := BuildAnalyzePrompt()

	for _, want := range []string{
		"valid JSON object",
		`"product_type"`,
		`"key_features"`,
		"Rules:",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("analyze prompt missing %q", want)
		}
	}
}

func TestBuildEditPromptSections(t *testing.T) {
	analysis := &ProductAnalysis{
		ProductType:        "board game",
		NameSuggestion:     "Couleurs et Formes",
		Materials:          "cardboard and wood",
		Colors:             "muted green, light birch",
		DimensionsEstimate: "30x30cm box",
		Shape:              "square box",
		KeyFeatures:        "printed animal cards",
		Texture:            "matte cardboard",
	}

	p := BuildEditPrompt(GameContexts[0], CategoryGame, analysis, "", "")

	for _, want := range []string{
		"CRITICAL RULES:",
		"--- SCENE ---",
		"Scene context: " + GameContexts[0].PromptModifier,
		"--- BRAND IDENTITY ---",
		"Sola Didact",
		"--- PRODUCT TO PRESERVE ---",
		"Couleurs et Formes",
		"--- CONSTRAINTS ---",
		"MUST AVOID:",
		"GAME-SPECIFIC RULES:",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("edit prompt missing %q", want)
		}
	}
}

func TestBuildEditPromptCustomContextOverrides(t *testing.T) {
	p := BuildEditPrompt(GameContexts[0], CategoryGame, nil, "A rooftop terrace at dusk", "")

	if !strings.Contains(p, "Custom scene: A rooftop terrace at dusk") {
		t.Error("custom context not used")
	}
	if strings.Contains(p, GameContexts[0].PromptModifier) {
		t.Error("catalog context leaked into a custom-context prompt")
	}
	if strings.Contains(p, "--- PRODUCT TO PRESERVE ---") {
		t.Error("product section present without analysis or description")
	}
}

func TestBuildGeneratePromptFurnitureRules(t *testing.T) {
	p := BuildGeneratePrompt(FurnitureContexts[0], CategoryFurniture, nil, "", "a height-adjustable school desk")

	if !strings.Contains(p, "FURNITURE-SPECIFIC RULES:") {
		t.Error("furniture rules missing")
	}
	if !strings.Contains(p, "USER PRODUCT DESCRIPTION") {
		t.Error("product description section missing")
	}
	if !strings.Contains(p, "--- PRODUCT TO RECREATE ---") {
		t.Error("generate product header missing")
	}
}

func TestBuildVideoPromptFrenchAndCamera(t *testing.T) {
	p := BuildVideoPrompt(GameContexts[1], CategoryGame, nil, "", "")

	if !strings.Contains(p, "MUST be in French") {
		t.Error("French language rule missing")
	}
	if !strings.Contains(p, "Camera: Smooth, slow dolly or orbit") {
		t.Error("camera direction missing")
	}
}

func TestCustomContextSerialize(t *testing.T) {
	tests := []struct {
		name string
		in   CustomContext
		want string
	}{
		{
			name: "empty",
			in:   CustomContext{},
			want: "",
		},
		{
			name: "all fields",
			in: CustomContext{
				Environment: "sunlit kitchen",
				Surface:     "marble counter",
				Lighting:    "morning sun",
				Mood:        "calm",
				Props:       "a coffee cup",
				Extra:       "shot from above",
			},
			want: "Environment: sunlit kitchen. Surface/support: marble counter. " +
				"Lighting: morning sun. Mood/atmosphere: calm. " +
				"Surrounding elements: a coffee cup. shot from above",
		},
		{
			name: "whitespace-only fields skipped",
			in:   CustomContext{Environment: "  ", Mood: "playful"},
			want: "Mood/atmosphere: playful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Serialize(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextByID(t *testing.T) {
	if c, ok := ContextByID(CategoryGame, "g5"); !ok || c.Label != "Mise en Scène Créative" {
		t.Errorf("g5 lookup failed: %+v %v", c, ok)
	}
	if c, ok := ContextByID(CategoryFurniture, "f9"); !ok || c.Label != "Mise en Situation" {
		t.Errorf("f9 lookup failed: %+v %v", c, ok)
	}
	if _, ok := ContextByID(CategoryGame, "f1"); ok {
		t.Error("furniture ID resolved in game catalog")
	}
}

func TestCatalogsComplete(t *testing.T) {
	if len(GameContexts) != 9 || len(FurnitureContexts) != 9 {
		t.Fatalf("catalog sizes: %d game, %d furniture", len(GameContexts), len(FurnitureContexts))
	}
	seen := map[string]bool{}
	for _, c := range append(append([]VisualContext{}, GameContexts...), FurnitureContexts...) {
		if c.ID == "" || c.Label == "" || c.PromptModifier == "" {
			t.Errorf("context %q incomplete", c.ID)
		}
		if seen[c.ID] {
			t.Errorf("duplicate context ID %q", c.ID)
		}
		seen[c.ID] = true
	}
}
