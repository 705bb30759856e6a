package catalog

import (
	"slices"

	"github.com/vadimtrunov/reelview/internal/core"
)

const sectionSize = 5

// Sections is the home screen split of a single list fetch.
type Sections struct {
	Popular     []core.Movie `json:"popular"`
	LowestRated []core.Movie `json:"lowestRated"`
	All         []core.Movie `json:"all"`
}

// HomeSections splits movies into the home screen rows: the first five are
// shown as popular, the next five as lowest rated, and All keeps everything.
func HomeSections(movies []core.Movie) Sections {
	return Sections{
		Popular:     window(movies, 0, sectionSize),
		LowestRated: window(movies, sectionSize, 2*sectionSize),
		All:         window(movies, 0, len(movies)),
	}
}

func window(movies []core.Movie, from, to int) []core.Movie {
	from = min(from, len(movies))
	to = min(to, len(movies))
	return slices.Clone(movies[from:to:to])
}
