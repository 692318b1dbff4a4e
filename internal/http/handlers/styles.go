package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/styles"
)

type styleItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Region      string `json:"region_type"`
}

func styleItems(list []styles.Style) []styleItem {
	items := make([]styleItem, 0, len(list))
	for _, s := range list {
		items = append(items, styleItem{
			ID:          s.ID,
			DisplayName: s.DisplayName(),
			Category:    string(s.Category),
			Region:      string(s.Region),
		})
	}
	return items
}

// ListStyles returns the whole style catalog.
func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"styles": styleItems(styles.All())})
}

// ListStylesByCategory returns the catalog entries of one category.
func (a *App) ListStylesByCategory(w http.ResponseWriter, r *http.Request) {
	category := styles.Category(chi.URLParam(r, "category"))
	items := styleItems(styles.ByCategory(category))
	if len(items) == 0 {
		a.error(w, http.StatusNotFound, "unknown style category")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"styles": items})
}
