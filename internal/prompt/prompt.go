// Package prompt assembles the prompts sent to Gemini for product analysis,
// image editing, image generation, and video generation. The brand identity,
// negative constraints, and per-mode templates live in embedded JSON
// documents so marketing can tune them without touching assembly logic.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed prompts/brand-identity.json
var brandIdentityJSON []byte

//go:embed prompts/negative-constraints.json
var negativeConstraintsJSON []byte

//go:embed prompts/prompt-templates.json
var promptTemplatesJSON []byte

// Category is the product category a prompt is built for.
type Category string

const (
	CategoryGame      Category = "GAME"
	CategoryFurniture Category = "FURNITURE"
)

// ProductAnalysis is the structured description of a product extracted by
// the analyze model. Field names match the JSON the model is asked to emit.
type ProductAnalysis struct {
	ProductType        string `json:"product_type"`
	NameSuggestion     string `json:"name_suggestion"`
	Materials          string `json:"materials"`
	Colors             string `json:"colors"`
	DimensionsEstimate string `json:"dimensions_estimate"`
	Shape              string `json:"shape"`
	KeyFeatures        string `json:"key_features"`
	Texture            string `json:"texture"`
	Components         string `json:"components"`
	AgeGroup           string `json:"age_group"`
	RawDescription     string `json:"raw_description,omitempty"`
}

type brandIdentity struct {
	Brand      string `json:"brand"`
	Origin     string `json:"origin"`
	Atmosphere string `json:"atmosphere"`
	Lighting   struct {
		Type      string `json:"type"`
		Direction string `json:"direction"`
		Warmth    string `json:"warmth"`
		Avoid     string `json:"avoid"`
	} `json:"lighting"`
	ColorPalette struct {
		PrimaryAccent string   `json:"primary_accent"`
		Background    string   `json:"background"`
		Materials     []string `json:"materials"`
		Tones         string   `json:"tones"`
		Avoid         string   `json:"avoid"`
	} `json:"color_palette"`
	PhotographyStyle struct {
		Approach     string `json:"approach"`
		Realism      string `json:"realism"`
		Lens         string `json:"lens"`
		DepthOfField string `json:"depth_of_field"`
	} `json:"photography_style"`
	PeopleRules struct {
		Faces   string `json:"faces"`
		Allowed string `json:"allowed"`
		Focus   string `json:"focus"`
	} `json:"people_rules"`
	StrictConstraints []string `json:"strict_constraints"`
}

type negativeConstraints struct {
	Global struct {
		Quality           []string `json:"quality"`
		UnwantedElements  []string `json:"unwanted_elements"`
		StyleIssues       []string `json:"style_issues"`
		PeopleIssues      []string `json:"people_issues"`
		CompositionIssues []string `json:"composition_issues"`
	} `json:"global"`
	ProductFidelity   []string `json:"product_fidelity"`
	GameSpecific      []string `json:"game_specific"`
	FurnitureSpecific []string `json:"furniture_specific"`
}

type modeTemplate struct {
	Role          string   `json:"role"`
	CriticalRules []string `json:"critical_rules"`
}

type promptTemplates struct {
	Analyze struct {
		Instruction  string            `json:"instruction"`
		OutputFormat map[string]string `json:"output_format"`
		Rules        []string          `json:"rules"`
	} `json:"analyze"`
	Edit     modeTemplate `json:"edit"`
	Generate modeTemplate `json:"generate"`
	Video    modeTemplate `json:"video"`
}

var (
	brand     brandIdentity
	negatives negativeConstraints
	templates promptTemplates
)

func init() {
	// The embedded documents ship with the binary; a decode failure is a
	// build defect, not a runtime condition.
	mustDecode(brandIdentityJSON, &brand)
	mustDecode(negativeConstraintsJSON, &negatives)
	mustDecode(promptTemplatesJSON, &templates)
}

func mustDecode(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(fmt.Sprintf("prompt: embedded document invalid: %v", err))
	}
}

func buildBrandSection() string {
	b := brand
	return strings.Join([]string{
		fmt.Sprintf("Brand: %s (%s).", b.Brand, b.Origin),
		fmt.Sprintf("Atmosphere: %s.", b.Atmosphere),
		fmt.Sprintf("Lighting: %s. Direction: %s. Warmth: %s. Avoid: %s.",
			b.Lighting.Type, b.Lighting.Direction, b.Lighting.Warmth, b.Lighting.Avoid),
		fmt.Sprintf("Color palette: Primary accent %s, background %s. Materials: %s. Tones: %s. Avoid: %s.",
			b.ColorPalette.PrimaryAccent, b.ColorPalette.Background,
			strings.Join(b.ColorPalette.Materials, ", "), b.ColorPalette.Tones, b.ColorPalette.Avoid),
		fmt.Sprintf("Photography: %s. %s. Lens: %s. DoF: %s.",
			b.PhotographyStyle.Approach, b.PhotographyStyle.Realism,
			b.PhotographyStyle.Lens, b.PhotographyStyle.DepthOfField),
		fmt.Sprintf("People: %s. Allowed: %s. %s.",
			b.PeopleRules.Faces, b.PeopleRules.Allowed, b.PeopleRules.Focus),
		fmt.Sprintf("Strict constraints: %s.", strings.Join(b.StrictConstraints, ". ")),
	}, "\n")
}

func buildProductSection(analysis *ProductAnalysis, productDescription string) string {
	var lines []string

	if analysis != nil {
		lines = append(lines,
			fmt.Sprintf("Product: %s (%s).", analysis.NameSuggestion, analysis.ProductType),
			fmt.Sprintf("Materials: %s.", analysis.Materials),
			fmt.Sprintf("Colors: %s.", analysis.Colors),
			fmt.Sprintf("Proportions: %s.", analysis.DimensionsEstimate),
			fmt.Sprintf("Shape: %s.", analysis.Shape),
			fmt.Sprintf("Key features to preserve: %s.", analysis.KeyFeatures),
			fmt.Sprintf("Texture: %s.", analysis.Texture),
		)
		if analysis.Components != "" {
			lines = append(lines, fmt.Sprintf("Components: %s.", analysis.Components))
		}
	}

	if productDescription != "" {
		lines = append(lines,
			"",
			"USER PRODUCT DESCRIPTION (important functional details from the owner):",
			productDescription,
			"Use this description to understand how the product works, moves, or is used. This information is critical for accurate representation.",
		)
	}

	return strings.Join(lines, "\n")
}

func buildNegativeSection(category Category) string {
	nc := negatives
	var global []string
	global = append(global, nc.Global.Quality...)
	global = append(global, nc.Global.UnwantedElements...)
	global = append(global, nc.Global.StyleIssues...)
	global = append(global, nc.Global.PeopleIssues...)
	global = append(global, nc.Global.CompositionIssues...)

	specific := nc.GameSpecific
	if category == CategoryFurniture {
		specific = nc.FurnitureSpecific
	}

	lines := []string{"MUST AVOID:"}
	for _, c := range global {
		lines = append(lines, "- "+c)
	}
	lines = append(lines, "", "PRODUCT FIDELITY RULES:")
	for _, c := range nc.ProductFidelity {
		lines = append(lines, "- "+c)
	}
	lines = append(lines, "", fmt.Sprintf("%s-SPECIFIC RULES:", category))
	for _, c := range specific {
		lines = append(lines, "- "+c)
	}
	return strings.Join(lines, "\n")
}

func buildContextSection(context VisualContext, customContext string) string {
	if customContext != "" {
		return "Custom scene: " + customContext
	}
	return "Scene context: " + context.PromptModifier
}

// BuildAnalyzePrompt returns the prompt asking the model to describe a
// product photo as structured JSON.
func BuildAnalyzePrompt() string {
	t := templates.Analyze

	keys := make([]string, 0, len(t.OutputFormat))
	for k := range t.OutputFormat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("  %q: %q", k, t.OutputFormat[k]))
	}

	lines := []string{
		t.Instruction,
		"",
		"Return your analysis as a valid JSON object with these fields:",
		"{",
		strings.Join(fields, ",\n"),
		"}",
		"",
		"Rules:",
	}
	for _, r := range t.Rules {
		lines = append(lines, "- "+r)
	}
	return strings.Join(lines, "\n")
}

func buildModePrompt(t modeTemplate, productHeader string, context VisualContext, category Category, analysis *ProductAnalysis, customContext, productDescription string) string {
	lines := []string{t.Role, "", "CRITICAL RULES:"}
	for _, r := range t.CriticalRules {
		lines = append(lines, "- "+r)
	}
	lines = append(lines,
		"",
		"--- SCENE ---",
		buildContextSection(context, customContext),
		"",
		"--- BRAND IDENTITY ---",
		buildBrandSection(),
		"",
	)
	if analysis != nil || productDescription != "" {
		lines = append(lines, productHeader, buildProductSection(analysis, productDescription), "")
	}
	lines = append(lines, "--- CONSTRAINTS ---", buildNegativeSection(category))
	return strings.Join(lines, "\n")
}

// BuildEditPrompt returns the prompt for placing the reference product into
// a new scene. A non-empty customContext overrides the catalog context.
func BuildEditPrompt(context VisualContext, category Category, analysis *ProductAnalysis, customContext, productDescription string) string {
	return buildModePrompt(templates.Edit, "--- PRODUCT TO PRESERVE ---",
		context, category, analysis, customContext, productDescription)
}

// BuildGeneratePrompt returns the prompt for creating a new marketing image
// of the product from scratch.
func BuildGeneratePrompt(context VisualContext, category Category, analysis *ProductAnalysis, customContext, productDescription string) string {
	return buildModePrompt(templates.Generate, "--- PRODUCT TO RECREATE ---",
		context, category, analysis, customContext, productDescription)
}

// BuildVideoPrompt returns the prompt for cinematic product video
// generation. All spoken and visible language is French.
func BuildVideoPrompt(context VisualContext, category Category, analysis *ProductAnalysis, customContext, productDescription string) string {
	base := buildModePrompt(templates.Video, "--- PRODUCT ---",
		context, category, analysis, customContext, productDescription)
	return strings.Join([]string{
		base,
		"",
		"Camera: Smooth, slow dolly or orbit movement revealing the product. Cinematic slow motion. Professional product video aesthetic.",
		"",
		"LANGUAGE: All voices, narration, dialogue, and any visible text MUST be in French (français). Never use English.",
	}, "\n")
}
