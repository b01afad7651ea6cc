package prompt

import "strings"

// VisualContext is one predefined scene from the catalog. The UI shows the
// French label and description; PromptModifier is what reaches the model.
type VisualContext struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	PromptModifier string `json:"promptModifier"`
	Icon           string `json:"icon"`
}

// AspectRatioOption describes one selectable output aspect ratio.
type AspectRatioOption struct {
	Value           string `json:"value"`
	Label           string `json:"label"`
	Description     string `json:"description"`
	DisabledInVideo bool   `json:"disabledInVideo,omitempty"`
}

// AspectRatioOptions lists the supported output formats. Square and 4:5
// portrait are image-only; the video models accept 16:9 and 9:16.
var AspectRatioOptions = []AspectRatioOption{
	{Value: "1:1", Label: "Carré", Description: "Instagram, Facebook", DisabledInVideo: true},
	{Value: "4:5", Label: "Portrait", Description: "Instagram Feed", DisabledInVideo: true},
	{Value: "16:9", Label: "Paysage", Description: "YouTube, Website"},
	{Value: "9:16", Label: "Story / Reel", Description: "Instagram, TikTok"},
}

// CustomContext holds the free-form scene fields a user can fill instead of
// picking a catalog context.
type CustomContext struct {
	Environment string `json:"environment"`
	Surface     string `json:"surface"`
	Lighting    string `json:"lighting"`
	Mood        string `json:"mood"`
	Props       string `json:"props"`
	Extra       string `json:"extra"`
}

// Serialize flattens the filled fields into a single scene sentence.
// Returns "" when every field is blank.
func (c CustomContext) Serialize() string {
	var parts []string
	add := func(label, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if label == "" {
			parts = append(parts, v)
		} else {
			parts = append(parts, label+": "+v)
		}
	}
	add("Environment", c.Environment)
	add("Surface/support", c.Surface)
	add("Lighting", c.Lighting)
	add("Mood/atmosphere", c.Mood)
	add("Surrounding elements", c.Props)
	add("", c.Extra)
	return strings.Join(parts, ". ")
}

// ContextByID returns the catalog context with the given ID for the
// category, or false if the ID is unknown.
func ContextByID(category Category, id string) (VisualContext, bool) {
	catalog := GameContexts
	if category == CategoryFurniture {
		catalog = FurnitureContexts
	}
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return VisualContext{}, false
}

// GameContexts is the scene catalog for educational games.
var GameContexts = []VisualContext{
	{
		ID:          "g1",
		Label:       "Table Bois (Catalogue)",
		Description: "Jeu posé sur une table en bois clair, lumière naturelle.",
		PromptModifier: "Educational game placed on a clean light wood table (oak or birch). " +
			"Top-down or slightly angled view (15-25 degrees from above). Soft natural side light " +
			"from a window, casting gentle shadows to the right. Neutral warm background, slightly " +
			"out of focus. Premium catalog photography style. Clean, calm composition with generous " +
			"negative space around the product. No text overlay. No surrounding clutter.",
		Icon: "🪑",
	},
	{
		ID:          "g2",
		Label:       "En Situation",
		Description: "Mains d'enfants ou d'adultes jouant avec le jeu.",
		PromptModifier: "Close-up of the educational game being played naturally. Hands of children " +
			"or adults interacting with the pieces — picking up, placing, or exploring them. Adapt the " +
			"interaction style to the specific game: stacking, sorting, matching, building, or reading. " +
			"Shallow depth of field with the product and hands in sharp focus. Warm indoor light. The " +
			"surface and background should feel natural and slightly varied — a wooden table, a play mat, " +
			"or a soft rug. No recognizable faces. Candid, authentic feel. No text overlay.",
		Icon: "🙌",
	},
	{
		ID:          "g3",
		Label:       "Salle de Classe",
		Description: "Tables d'école, arrière-plan flou.",
		PromptModifier: "Educational game placed on a school desk in a modern European classroom. " +
			"Light wood or white laminate desk surface. Blurred classroom background: whiteboard, shelves, " +
			"other desks, educational posters. A few pencils or notebooks subtly visible near the product, " +
			"not competing with it. Natural daylight from large windows mixed with soft overhead light. " +
			"Eye-level or slightly above angle. Professional, institutional atmosphere. No text overlay.",
		Icon: "🏫",
	},
	{
		ID:          "g4",
		Label:       "Coin Lecture",
		Description: "Tapis, coussins, ambiance chaleureuse.",
		PromptModifier: "Educational game placed in a cozy reading corner. Soft rug or fabric play mat " +
			"as surface. Surrounding elements: cushions, a low bookshelf, a plush toy partially visible. " +
			"Warm golden hour light from a side window creating inviting shadows. Low camera angle (near " +
			"ground level), intimate perspective. The overall arrangement can vary slightly — different " +
			"cushion colors, book spines, or fabric textures — but always maintains a warm, safe, hygge " +
			"feeling. No text overlay.",
		Icon: "🧸",
	},
	{
		ID:          "g5",
		Label:       "Mise en Scène Créative",
		Description: "Décor adapté au thème du jeu.",
		PromptModifier: "Creative editorial flat-lay or styled composition of the educational game. " +
			"CRITICAL: Read the product details (name, theme, colors, features) provided below and choose " +
			"3-5 small decorative props that directly relate to the game's specific educational subject — " +
			"for example: miniature wooden numbers for a counting game, colored pencils for a drawing game, " +
			"small figurines for a storytelling game, letter blocks for a literacy game, fabric swatches " +
			"for a color game. Props must visually echo the game's theme, NOT default to generic nature " +
			"elements (no leaves, pebbles, or flowers unless the game is specifically about nature). Match " +
			"prop colors to complement the product's own palette. Keep props small and secondary — the game " +
			"is always the central hero. Top-down flat-lay or 45-degree styled angle on a clean surface " +
			"(linen, light wood, or colored paper — pick what best suits the product's colors). Balanced " +
			"editorial layout with intentional negative space. Vary the arrangement each time. No text overlay.",
		Icon: "🎨",
	},
	{
		ID:          "g6",
		Label:       "Hero Shot (Social)",
		Description: "Fond propre, esthétique pour réseaux sociaux.",
		PromptModifier: "Hero shot of the educational game on a seamless solid background using one of " +
			"the Sola Didact brand tones — choose between soft white (#f5f5f0), muted green (#5dac3e at low " +
			"saturation, like a sage or soft olive wash), or dark charcoal (#3a383e). Pick the background " +
			"color that best contrasts with and complements the product's own colors. Product centered with " +
			"high aesthetic value. Soft key light from upper left, gentle fill from right, creating a clean " +
			"defined shadow beneath the product. Sharp focus throughout. Perfect composition for Instagram " +
			"cover or social media thumbnail. Minimalist, premium brand feel. No text overlay. No props.",
		Icon: "📸",
	},
	{
		ID:          "g7",
		Label:       "Extérieur / Nature",
		Description: "Plein air, jardin, nature suisse.",
		PromptModifier: "Educational game photographed outdoors in a natural Swiss/European setting. " +
			"Choose an appropriate outdoor surface: a weathered wooden garden table, a stone bench, a " +
			"blanket on grass, or a tree stump. Surrounding nature elements vary naturally: green foliage, " +
			"wildflowers, dappled sunlight through leaves, distant meadow or garden. Bright, soft natural " +
			"daylight. Slightly elevated or eye-level angle. The specific outdoor setting should feel " +
			"different each time while always conveying fresh air, nature, and a connection to the " +
			"outdoors. Authentic, not staged. No text overlay.",
		Icon: "🌿",
	},
	{
		ID:          "g8",
		Label:       "Fournitures Scolaires",
		Description: "Crayons, cahiers, ambiance studieuse.",
		PromptModifier: "Educational game placed among school supplies on a light wood desk. Surrounding " +
			"items: colored pencils, notebooks, ruler, pencil case — arranged naturally, not competing with " +
			"the product. Bright, organized atmosphere. Natural daylight. European school setting. The " +
			"specific arrangement of supplies can vary but the overall feeling is fresh, motivating, and " +
			"studious. No text overlay.",
		Icon: "📚",
	},
	{
		ID:          "g9",
		Label:       "Ambiance Boutique",
		Description: "Étagères, magasin de jouets.",
		PromptModifier: "Educational game displayed on a wooden shelf in a charming European toy shop. " +
			"Other games and educational materials visible on surrounding shelves, slightly out of focus. " +
			"Warm, inviting retail atmosphere with soft ambient lighting. The shop details can vary — " +
			"different shelf styles, neighboring products, background elements — but always convey a " +
			"curated, quality boutique feel (not a large chain store). No text overlay.",
		Icon: "🏪",
	},
}

// FurnitureContexts is the scene catalog for school furniture.
var FurnitureContexts = []VisualContext{
	{
		ID:          "f1",
		Label:       "Classe Moderne",
		Description: "Environnement scolaire réaliste.",
		PromptModifier: "Furniture piece (mobilier scolaire) placed in a modern European classroom. " +
			"Surrounding school furniture: desks, chairs, storage units. Educational materials on shelves, " +
			"whiteboard on wall. Large windows with natural light combined with soft overhead lighting. " +
			"Eye-level or slightly above (20 degrees), three-quarter view showing furniture dimensions. " +
			"Show furniture at realistic scale relative to standard classroom elements. Professional, " +
			"institutional, modern. No text overlay.",
		Icon: "🏫",
	},
	{
		ID:          "f2",
		Label:       "Salle de Jeux",
		Description: "Couleurs douces, design enfantin.",
		PromptModifier: "Furniture piece in a children's playroom. Soft pastel walls with fresh green " +
			"accents in decor. Playful but design-oriented environment. Camera at child's eye-level " +
			"(60-80cm height). The specific toys, cushions, and playful elements surrounding the furniture " +
			"can vary naturally based on the furniture type — storage furniture might show organized toys, " +
			"a table might show craft materials, seating might show cushions. Bright warm natural light. " +
			"Child-friendly, safe atmosphere. No text overlay.",
		Icon: "🎲",
	},
	{
		ID:          "f3",
		Label:       "Coin Calme",
		Description: "Poufs, lumière chaude, atmosphère apaisante.",
		PromptModifier: "Furniture piece as the anchor of a quiet corner. Bean bags, floor cushions, low " +
			"shelves with books, and an indoor plant nearby. Warm golden hour window light creating long, " +
			"inviting shadows. Low camera angle (ground level to 30 degrees), intimate and inviting. Carpet " +
			"or soft flooring. Shallow depth of field with furniture sharp and cozy surroundings gently " +
			"blurred. The exact arrangement of comfort elements may vary while keeping the overall " +
			"relaxing, nurturing atmosphere. No text overlay.",
		Icon: "🤫",
	},
	{
		ID:          "f4",
		Label:       "Bureau Enseignant",
		Description: "Espace de travail adulte, fonctionnel.",
		PromptModifier: "Furniture piece in a teacher's workspace or school office. Professional context: " +
			"filing cabinet or bookshelf in background, desk organizer, notebook or laptop nearby, coffee " +
			"mug. Office window light combined with desk lamp warmth. Eye-level adult height, straight-on " +
			"or slight three-quarter angle. Include adult-sized references for correct proportions. " +
			"Functional, organized, professional. No text overlay.",
		Icon: "💼",
	},
	{
		ID:          "f5",
		Label:       "Crèche",
		Description: "Douceur, sécurité, nature.",
		PromptModifier: "Furniture piece in a nursery or daycare setting. Very soft, diffused natural " +
			"light with no harsh contrasts. Pastel walls, natural wood elements, safe and welcoming design. " +
			"Camera at toddler height (30-50cm). Soft, safe flooring visible (cork, play mat, carpet). " +
			"Wooden toys, cotton items, and small plants as contextual elements — vary these based on the " +
			"specific furniture piece. Show rounded edges and stable base clearly. Gentle, nurturing " +
			"atmosphere. No text overlay.",
		Icon: "👶",
	},
	{
		ID:          "f6",
		Label:       "Minimaliste",
		Description: "Fond épuré, focus design.",
		PromptModifier: "Minimalist studio shot of the furniture piece. Seamless solid background using " +
			"one of the Sola Didact brand tones — choose between soft white (#f5f5f0), muted green (#5dac3e " +
			"at low saturation, like a sage or soft olive wash), or dark charcoal (#3a383e). Pick the " +
			"background color that best contrasts with and complements the furniture's own materials and " +
			"colors. Three-quarter view at eye-level showing depth and proportions clearly. Studio " +
			"lighting: key light from 45 degrees left, fill from right, rim light for edge definition. " +
			"Clean defined shadow beneath for grounding. Sharp focus throughout, showcasing every design " +
			"detail. Furniture centered with generous negative space. No props. No text overlay.",
		Icon: "✨",
	},
	{
		ID:          "f7",
		Label:       "Classe Flexible",
		Description: "Aménagement modulable, îlots collaboratifs.",
		PromptModifier: "Furniture piece shown in a flexible classroom layout with modular learning " +
			"islands. Multiple configurations visible — collaborative arrangement, individual work zones, " +
			"or group clusters. Active learning environment. Bright natural light from large windows. Other " +
			"complementary furniture pieces visible to suggest modularity. Show how the piece integrates " +
			"into a dynamic, reconfigurable educational space. No text overlay.",
		Icon: "🔄",
	},
	{
		ID:          "f8",
		Label:       "Extérieur",
		Description: "Cour, terrasse, espace vert.",
		PromptModifier: "Furniture piece placed outdoors in a school courtyard, garden terrace, or " +
			"covered outdoor learning area. Natural greenery around — trees, grass, planters. Bright " +
			"natural daylight with soft shadows. European outdoor educational setting. The specific outdoor " +
			"context can vary: a paved schoolyard, a wooden deck, a garden path, or under a pergola. Choose " +
			"the setting that best suits the specific furniture piece. No text overlay.",
		Icon: "🌿",
	},
	{
		ID:          "f9",
		Label:       "Mise en Situation",
		Description: "Mobilier en cours d'utilisation, adapté au produit.",
		PromptModifier: "Furniture piece shown actively being used in its natural educational context. " +
			"Adapt the scene to the specific piece: a chair is placed at a desk where someone just was " +
			"(open notebook, pushed-back angle); a table shows an activity in progress (art materials, " +
			"educational games spread out); a shelf displays organized materials with some items being " +
			"reached for; storage shows neatly arranged school supplies with one drawer or door ajar. " +
			"Include subtle human presence clues (a jacket on a chair, a bag nearby, blurred silhouettes " +
			"in the background) without showing recognizable faces. The setting should match the " +
			"furniture's intended use: primary school, nursery, office, or common area. Warm natural " +
			"light. Each generation should feel like a candid moment captured during a real school day. " +
			"No text overlay.",
		Icon: "📷",
	},
}
