package core

import "strings"

// Movie is the summary record shown in lists.
type Movie struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Image      string   `json:"image"`
	ImDbRating string   `json:"imDbRating"`
	Plot       string   `json:"plot,omitempty"`
	Genres     []string `json:"genres"`
}

// MovieDetails extends Movie with the fields of the details screen.
type MovieDetails struct {
	Movie
	ReleaseDate   string       `json:"releaseDate,omitempty"`
	ContentRating string       `json:"contentRating,omitempty"`
	RuntimeMins   string       `json:"runtimeMins,omitempty"`
	Cast          []CastMember `json:"cast"`
	Directors     []Director   `json:"directors"`
	Writers       []Writer     `json:"writers"`
}

// CastMember is an actor credited on a title.
type CastMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Character string `json:"character,omitempty"`
}

// Director is a director credited on a title.
type Director struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Writer is a writer credited on a title.
type Writer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HasGenre reports whether genres contains genre, ignoring case.
// An empty genre never matches.
func HasGenre(genres []string, genre string) bool {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return false
	}
	for _, g := range genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
