package telegram

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/reelview/internal/core"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// maxCastLines caps the cast shown on the details message.
const maxCastLines = 5

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// movieSuffix renders " (year) ★ rating" for list lines.
func movieSuffix(m core.Movie) string {
	s := fmt.Sprintf(" (%s)", m.Year)
	if m.ImDbRating != "" {
		s += " ★ " + m.ImDbRating
	}
	return s
}

// formatMovieList renders a numbered movie list as MarkdownV2 and as plain text.
func formatMovieList(title string, movies []core.Movie) (string, string) {
	var md, plain strings.Builder
	md.WriteString(FormatBold(title) + "\n")
	plain.WriteString(title + "\n")
	for i, m := range movies {
		n := fmt.Sprintf("%d. ", i+1)
		md.WriteString(EscapeMdV2(n) + FormatBold(m.Title) + EscapeMdV2(movieSuffix(m)) + "\n")
		plain.WriteString(n + m.Title + movieSuffix(m) + "\n")
	}
	return strings.TrimRight(md.String(), "\n"), strings.TrimRight(plain.String(), "\n")
}

// formatDetails renders the details message as MarkdownV2 and as plain text.
func formatDetails(d *core.MovieDetails) (string, string) {
	var md, plain []string
	add := func(mdLine, plainLine string) {
		md = append(md, mdLine)
		plain = append(plain, plainLine)
	}
	field := func(label, value string) {
		if value == "" {
			return
		}
		add(FormatBold(label+":")+" "+EscapeMdV2(value), label+": "+value)
	}

	head := fmt.Sprintf(" (%s)", d.Year)
	add(FormatBold(d.Title)+EscapeMdV2(head), d.Title+head)

	var facts []string
	if d.ImDbRating != "" {
		facts = append(facts, "★ "+d.ImDbRating)
	}
	if d.RuntimeMins != "" {
		facts = append(facts, d.RuntimeMins+" min")
	}
	if d.ContentRating != "" {
		facts = append(facts, d.ContentRating)
	}
	if len(facts) > 0 {
		line := strings.Join(facts, " · ")
		add(EscapeMdV2(line), line)
	}

	field("Genres", strings.Join(d.Genres, ", "))
	field("Released", d.ReleaseDate)
	if d.Plot != "" {
		add("\n"+FormatItalic(d.Plot), "\n"+d.Plot)
	}

	directors := make([]string, 0, len(d.Directors))
	for _, p := range d.Directors {
		directors = append(directors, p.Name)
	}
	writers := make([]string, 0, len(d.Writers))
	for _, p := range d.Writers {
		writers = append(writers, p.Name)
	}
	field("Directed by", strings.Join(directors, ", "))
	field("Written by", strings.Join(writers, ", "))

	cast := d.Cast
	if len(cast) > maxCastLines {
		cast = cast[:maxCastLines]
	}
	names := make([]string, 0, len(cast))
	for _, c := range cast {
		names = append(names, c.Name)
	}
	field("Starring", strings.Join(names, ", "))

	field("IMDb", d.ID)
	return strings.Join(md, "\n"), strings.Join(plain, "\n")
}

// formatCast renders a cast list with characters.
func formatCast(cast []core.CastMember) (string, string) {
	var md, plain strings.Builder
	md.WriteString(FormatBold("Cast") + "\n")
	plain.WriteString("Cast\n")
	for _, c := range cast {
		md.WriteString(EscapeMdV2("• ") + FormatBold(c.Name))
		plain.WriteString("• " + c.Name)
		if c.Character != "" {
			md.WriteString(" as " + FormatItalic(c.Character))
			plain.WriteString(" as " + c.Character)
		}
		md.WriteString("\n")
		plain.WriteString("\n")
	}
	return strings.TrimRight(md.String(), "\n"), strings.TrimRight(plain.String(), "\n")
}
