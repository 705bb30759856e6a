package catalog

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vadimtrunov/reelview/internal/core"
)

// SortOrder selects how a movie list is ordered.
type SortOrder int

const (
	// SortByYear orders by release year, newest first.
	SortByYear SortOrder = iota
	// SortByRating orders by rating, highest first.
	SortByRating
	// SortByTitle orders by title, A to Z.
	SortByTitle
)

// SortOrders lists every order in the sequence the UI cycles through.
var SortOrders = []SortOrder{SortByYear, SortByRating, SortByTitle}

func (o SortOrder) String() string {
	switch o {
	case SortByYear:
		return "year"
	case SortByRating:
		return "rating"
	case SortByTitle:
		return "title"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}

// Next returns the order following o in SortOrders.
func (o SortOrder) Next() SortOrder {
	i := slices.Index(SortOrders, o)
	return SortOrders[(i+1)%len(SortOrders)]
}

// ParseSortOrder parses "year", "rating", "title" or "name".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "":
		return SortByYear, nil
	case "rating":
		return SortByRating, nil
	case "title", "name":
		return SortByTitle, nil
	default:
		return SortByYear, fmt.Errorf("unknown sort order %q (want year, rating or title)", s)
	}
}

// Sort returns a sorted copy of movies. The sort is stable: movies that
// compare equal keep their input order. Movies whose year or rating does not
// parse sort after all movies that have one.
func Sort(movies []core.Movie, order SortOrder) []core.Movie {
	sorted := slices.Clone(movies)

	switch order {
	case SortByYear:
		slices.SortStableFunc(sorted, func(a, b core.Movie) int {
			return compareDesc(parseYear(a.Year), parseYear(b.Year))
		})
	case SortByRating:
		slices.SortStableFunc(sorted, func(a, b core.Movie) int {
			return compareDesc(parseRating(a.ImDbRating), parseRating(b.ImDbRating))
		})
	case SortByTitle:
		col := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b core.Movie) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
	return sorted
}

// compareDesc orders present values descending, absent values last.
func compareDesc(a, b optFloat) int {
	switch {
	case a.ok && !b.ok:
		return -1
	case !a.ok && b.ok:
		return 1
	case !a.ok && !b.ok:
		return 0
	case a.v > b.v:
		return -1
	case a.v < b.v:
		return 1
	}
	return 0
}

type optFloat struct {
	v  float64
	ok bool
}

func parseYear(s string) optFloat {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return optFloat{}
	}
	return optFloat{v: float64(n), ok: true}
}

func parseRating(s string) optFloat {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return optFloat{}
	}
	return optFloat{v: f, ok: true}
}
