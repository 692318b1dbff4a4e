package styles

import (
	"fmt"
	"strings"
)

// CategorySelection is one user choice: whether the category participates and
// which style token was picked.
type CategorySelection struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
}

// Selection maps the three selectable categories to their choices. Landscape
// covers ground cover styles (mulch, gravel, sod).
type Selection struct {
	Curbing   CategorySelection `json:"curbing"`
	Landscape CategorySelection `json:"landscape"`
	Patio     CategorySelection `json:"patio"`
}

// preservationClause is appended to every prompt so the edit never bleeds
// outside the masked region. Wording kept from the production prompts.
const preservationClause = "Do not modify any other parts of the image. Keep the house, driveway, sky, and trees exactly the same."

// genericClause is used when no category is enabled, which is a degraded but
// valid request rather than an error.
const genericClause = "Apply tasteful professional landscaping improvements within the masked area only"

// BuildEditPrompt assembles the edit instruction from all enabled categories.
// Clauses follow a fixed category order (curbing, landscape, patio) so output
// is stable, and the preservation clause always terminates the prompt.
func BuildEditPrompt(sel Selection) string {
	var clauses []string
	if c := sel.Curbing; c.Enabled && strings.TrimSpace(c.Type) != "" {
		clauses = append(clauses, fmt.Sprintf("Add %s in this masked area only", phraseFor(c.Type)))
	}
	if c := sel.Landscape; c.Enabled && strings.TrimSpace(c.Type) != "" {
		clauses = append(clauses, fmt.Sprintf("Replace the ground cover with %s in this region only", phraseFor(c.Type)))
	}
	if c := sel.Patio; c.Enabled && strings.TrimSpace(c.Type) != "" {
		clauses = append(clauses, fmt.Sprintf("Create a %s in this specific area only", phraseFor(c.Type)))
	}
	if len(clauses) == 0 {
		clauses = append(clauses, genericClause)
	}
	return strings.Join(clauses, ", ") + ". " + preservationClause
}

// Empty reports whether no category contributes to the prompt.
func (s Selection) Empty() bool {
	for _, c := range []CategorySelection{s.Curbing, s.Landscape, s.Patio} {
		if c.Enabled && strings.TrimSpace(c.Type) != "" {
			return false
		}
	}
	return true
}

// phraseFor renders a style token as a human-readable phrase, preferring the
// catalog wording over mechanical normalization.
func phraseFor(token string) string {
	if s, ok := ByID(token); ok && s.Phrase != "" {
		return s.Phrase
	}
	return Humanize(token)
}
