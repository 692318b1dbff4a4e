// Package styles holds the landscaping style catalog and the edit-prompt
// builder that turns a structured style selection into a single instruction
// for the generative edit service.
package styles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups catalog styles by the kind of surface they apply to.
type Category string

const (
	CategoryCurbing Category = "curbing"
	CategoryMulch   Category = "mulch"
	CategoryPatio   Category = "patio"
	CategoryGravel  Category = "gravel"
	CategoryGrass   Category = "grass"
)

// RegionType describes the segmentation region a style is suited for.
type RegionType string

const (
	RegionEdge      RegionType = "edge"
	RegionCentral   RegionType = "central"
	RegionHardscape RegionType = "hardscape"
	RegionLawn      RegionType = "lawn"
)

// Style is one catalog entry. Phrase is the short human-readable rendering
// used inside composed edit instructions; Prompt is the full editorial
// instruction shown alongside the style in the catalog API.
type Style struct {
	ID       string     `json:"id"`
	Phrase   string     `json:"phrase"`
	Prompt   string     `json:"prompt"`
	Category Category   `json:"category"`
	Region   RegionType `json:"region_type"`
}

// DisplayName renders the style ID as a title-cased label, e.g.
// "natural_stone_curbing" becomes "Natural Stone Curbing".
func (s Style) DisplayName() string {
	return cases.Title(language.AmericanEnglish).String(Humanize(s.ID))
}

// Humanize turns an enum-like token into a plain phrase: underscores and
// hyphens become spaces.
func Humanize(token string) string {
	token = strings.TrimSpace(token)
	token = strings.ReplaceAll(token, "_", " ")
	token = strings.ReplaceAll(token, "-", " ")
	return strings.Join(strings.Fields(token), " ")
}

// catalog is ordered so listings are stable regardless of lookup path.
var catalog = []Style{
	{
		ID:       "natural_stone_curbing",
		Phrase:   "natural stone curbing",
		Prompt:   "Add natural stone curbing along the existing lawn edges and walkways with irregularly shaped fieldstone or stacked stone blocks in earth tones. Keep all existing plants, trees, bushes, mulch and landscape features exactly where they are. The curbing should follow the natural contours of the landscape and appear professionally installed with clean, defined edges.",
		Category: CategoryCurbing,
		Region:   RegionEdge,
	},
	{
		ID:       "stone_curbing",
		Phrase:   "natural stone curbing",
		Prompt:   "Add natural stone landscape curbing along the border only. Preserve all other elements in the image.",
		Category: CategoryCurbing,
		Region:   RegionEdge,
	},
	{
		ID:       "concrete_curbing",
		Phrase:   "clean concrete curbing",
		Prompt:   "Add clean concrete landscape curbing along the edge only. Keep the existing landscape and structures unchanged.",
		Category: CategoryCurbing,
		Region:   RegionEdge,
	},
	{
		ID:       "brick_curbing",
		Phrase:   "traditional brick curbing",
		Prompt:   "Replace with classic brick landscape edging. Traditional red brick border with clean mortar lines and professional installation with straight edges.",
		Category: CategoryCurbing,
		Region:   RegionEdge,
	},
	{
		ID:       "river_rock_curbing",
		Phrase:   "river rock curbing",
		Prompt:   "Install river rock curbing along all lawn borders and pathways using smooth, rounded river rocks in mixed natural colors sized 2-4 inches. Maintain all existing vegetation unchanged.",
		Category: CategoryCurbing,
		Region:   RegionEdge,
	},
	{
		ID:       "brown_mulch",
		Phrase:   "brown wood mulch",
		Prompt:   "Replace only the ground cover areas with fresh brown hardwood mulch. Keep all existing trees, bushes, shrubs, flowers, and plants exactly how they are. The mulch should be evenly distributed around plant bases with a 2-3 inch depth, creating clean edges against lawn areas and walkways.",
		Category: CategoryMulch,
		Region:   RegionCentral,
	},
	{
		ID:       "red_mulch",
		Phrase:   "red cedar mulch",
		Prompt:   "Replace with vibrant red cedar mulch. Rich reddish-brown organic mulch with natural wood texture and a fresh appearance with good coverage depth.",
		Category: CategoryMulch,
		Region:   RegionCentral,
	},
	{
		ID:       "premium_mulch",
		Phrase:   "premium hardwood mulch",
		Prompt:   "Replace only the ground cover areas with fresh premium hardwood mulch, evenly distributed around plant bases with clean edges against lawn areas and walkways.",
		Category: CategoryMulch,
		Region:   RegionCentral,
	},
	{
		ID:       "river_rock",
		Phrase:   "river rock ground cover",
		Prompt:   "Replace ground cover areas with natural river rock landscaping using mixed-size smooth river rocks in earth tones. Preserve all existing vegetation exactly as it appears.",
		Category: CategoryGravel,
		Region:   RegionCentral,
	},
	{
		ID:       "fresh_sod",
		Phrase:   "fresh natural sod",
		Prompt:   "Replace the lawn area with hyperrealistic, natural looking established grass.",
		Category: CategoryGrass,
		Region:   RegionLawn,
	},
	{
		ID:       "concrete_patio",
		Phrase:   "smooth concrete patio",
		Prompt:   "Install a clean, modern concrete patio with a smooth or lightly textured finish in light gray with subtle expansion joints. Preserve all surrounding vegetation and landscape elements exactly as shown.",
		Category: CategoryPatio,
		Region:   RegionHardscape,
	},
	{
		ID:       "flagstone_patio",
		Phrase:   "natural flagstone patio",
		Prompt:   "Transform this area into a natural flagstone patio only. Leave the rest of the image completely unchanged.",
		Category: CategoryPatio,
		Region:   RegionHardscape,
	},
	{
		ID:       "stamped_concrete",
		Phrase:   "stamped concrete patio",
		Prompt:   "Create a stamped concrete patio with decorative patterns such as ashlar slate, cobblestone, or brick texture in earth tone colors. Preserve all existing trees, shrubs, plants, and landscape features exactly as shown.",
		Category: CategoryPatio,
		Region:   RegionHardscape,
	},
	{
		ID:       "designer_pavers",
		Phrase:   "interlocking designer pavers",
		Prompt:   "Install a designer paver patio with interlocking stone pavers in coordinated colors with tight joints and professional installation.",
		Category: CategoryPatio,
		Region:   RegionHardscape,
	},
}

var byID = func() map[string]Style {
	m := make(map[string]Style, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// All returns every catalog style in stable order.
func All() []Style {
	out := make([]Style, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a style by its token.
func ByID(id string) (Style, bool) {
	s, ok := byID[strings.TrimSpace(id)]
	return s, ok
}

// ByCategory returns all styles in the category, in catalog order.
func ByCategory(c Category) []Style {
	var out []Style
	for _, s := range catalog {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}
