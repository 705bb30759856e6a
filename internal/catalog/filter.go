package catalog

import (
	"slices"
	"strings"

	"github.com/vadimtrunov/reelview/internal/core"
)

// CategoryAll is the home-screen category that disables genre filtering.
const CategoryAll = "All"

// FilterByGenre returns the movies whose genre list contains genre,
// compared case-insensitively. The result is empty (never nil) when nothing matches.
func FilterByGenre(movies []core.Movie, genre string) []core.Movie {
	out := make([]core.Movie, 0)
	for _, m := range movies {
		if core.HasGenre(m.Genres, genre) {
			out = append(out, m)
		}
	}
	return out
}

// FilterByCategory is FilterByGenre with CategoryAll (or an empty category)
// passing every movie through.
func FilterByCategory(movies []core.Movie, category string) []core.Movie {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return slices.Clone(movies)
	}
	return FilterByGenre(movies, category)
}

// Genres returns the distinct genres across movies, sorted case-insensitively.
// The first spelling seen wins.
func Genres(movies []core.Movie) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range movies {
		for _, g := range m.Genres {
			key := strings.ToLower(g)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
