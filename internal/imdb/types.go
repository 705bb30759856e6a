package imdb

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Title is a title record as returned by list and search endpoints.
// Field presence varies per record; every field except ID may be missing.
type Title struct {
	ID            string   `json:"id"`
	Type          string   `json:"type,omitempty"`
	PrimaryTitle  string   `json:"primaryTitle,omitempty"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Description   string   `json:"description,omitempty"`
	PrimaryImage  string   `json:"primaryImage,omitempty"`
	StartYear     Number   `json:"startYear,omitempty"`
	AverageRating Number   `json:"averageRating,omitempty"`
	NumVotes      Number   `json:"numVotes,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

// TitleDetails is the payload of the details endpoint.
type TitleDetails struct {
	Title
	ReleaseDate    string   `json:"releaseDate,omitempty"`
	RuntimeMinutes Number   `json:"runtimeMinutes,omitempty"`
	ContentRating  string   `json:"contentRating,omitempty"`
	Directors      []Credit `json:"directors,omitempty"`
	Writers        []Credit `json:"writers,omitempty"`
	Cast           []Credit `json:"cast,omitempty"`
}

// Credit is a person attached to a title (cast, director or writer).
type Credit struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	FullName     string   `json:"fullName,omitempty"`
	Image        string   `json:"image,omitempty"`
	PrimaryImage string   `json:"primaryImage,omitempty"`
	Character    string   `json:"character,omitempty"`
	Characters   []string `json:"characters,omitempty"`
}

// DisplayName returns the first non-empty name field.
func (c Credit) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FullName
}

// searchResponse wraps the search endpoint response.
type searchResponse struct {
	Results []Title `json:"results"`
}

// Number is a numeric field that upstream sends either as a JSON number or
// as a numeric string. Values are stored in canonical decimal form; anything
// unparseable or non-finite decodes to the empty Number.
type Number string

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*n = ""
		return nil
	}

	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = ""
		return nil
	}
	*n = Number(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// MarshalJSON writes the value as a bare JSON number, or null when no
// finite value is present.
func (n Number) MarshalJSON() ([]byte, error) {
	s := n.String()
	if s == "" {
		return []byte("null"), nil
	}
	return []byte(s), nil
}

// Float64 returns the numeric value and whether one is present.
func (n Number) Float64() (float64, bool) {
	if n == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String renders the value in shortest form ("7.5", "2020", "7" for 7.0).
// Returns "" when no value is present.
func (n Number) String() string {
	f, ok := n.Float64()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
