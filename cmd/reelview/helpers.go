package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/reelview/internal/catalog"
	"github.com/vadimtrunov/reelview/internal/config"
	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/imdb"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleRating  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true) // cyan bold

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// resolveConfigPath returns the config file to load. The default path is
// optional: when it was not set explicitly and does not exist, configuration
// comes from .env and the environment alone.
func resolveConfigPath(cmd *cobra.Command, path string) string {
	if cmd != nil && cmd.Flags().Changed("config") {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

// loadConfig loads and validates the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(cmd, configPath))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initCatalog creates the API client and the catalog service on top of it.
func initCatalog(cfg *config.Config, logger *slog.Logger) *catalog.Service {
	client := imdb.New(imdb.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		APIHost: cfg.API.Host,
		Timeout: cfg.API.Timeout,
	}, logger)
	logger.Debug("movie API client initialized",
		slog.String("url", sanitizeURL(cfg.API.BaseURL)),
		slog.String("host", cfg.API.Host),
	)
	return catalog.NewService(client, logger)
}

// setup loads the configuration, installs the logger and builds the catalog.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, *catalog.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := config.SetupLogger(cfg.App.LogLevel)
	return cfg, logger, initCatalog(cfg, logger), nil
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// movieLine renders one list row: title, year, rating and genres.
func movieLine(m core.Movie) string {
	line := styleTitle.Render(m.Title) + " " + styleDim.Render("("+m.Year+")")
	if m.ImDbRating != "" {
		line += " " + styleRating.Render("★ "+m.ImDbRating)
	}
	if len(m.Genres) > 0 {
		line += " " + styleDim.Render(strings.Join(m.Genres, ", "))
	}
	return line
}

// renderMovies renders a numbered movie list under a header.
func renderMovies(header string, movies []core.Movie) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(header))
	sb.WriteString("\n")
	if len(movies) == 0 {
		sb.WriteString(styleDim.Render("No movies found."))
		sb.WriteString("\n")
		return sb.String()
	}
	width := len(fmt.Sprint(len(movies)))
	for i, m := range movies {
		fmt.Fprintf(&sb, "%*d. %s %s\n", width, i+1, movieLine(m), styleDim.Render(m.ID))
	}
	return sb.String()
}

// renderDetails renders the details screen.
func renderDetails(d *core.MovieDetails) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(d.Title + " (" + d.Year + ")"))
	sb.WriteString("\n")

	var facts []string
	if d.ImDbRating != "" {
		facts = append(facts, styleRating.Render("★ "+d.ImDbRating))
	}
	if d.RuntimeMins != "" {
		facts = append(facts, d.RuntimeMins+" min")
	}
	if d.ContentRating != "" {
		facts = append(facts, d.ContentRating)
	}
	if d.ReleaseDate != "" {
		facts = append(facts, "released "+d.ReleaseDate)
	}
	if len(facts) > 0 {
		sb.WriteString(strings.Join(facts, styleDim.Render(" · ")) + "\n")
	}
	if len(d.Genres) > 0 {
		sb.WriteString(styleDim.Render(strings.Join(d.Genres, ", ")) + "\n")
	}
	if d.Plot != "" {
		sb.WriteString("\n" + d.Plot + "\n")
	}

	names := func(label string, list []string) {
		if len(list) > 0 {
			sb.WriteString("\n" + styleInfo.Render(label) + " " + strings.Join(list, ", "))
		}
	}
	directors := make([]string, 0, len(d.Directors))
	for _, p := range d.Directors {
		directors = append(directors, p.Name)
	}
	writers := make([]string, 0, len(d.Writers))
	for _, p := range d.Writers {
		writers = append(writers, p.Name)
	}
	names("Directed by", directors)
	names("Written by", writers)

	if len(d.Cast) > 0 {
		sb.WriteString("\n\n" + styleInfo.Render("Cast") + "\n")
		for _, c := range d.Cast {
			sb.WriteString("  " + c.Name)
			if c.Character != "" {
				sb.WriteString(styleDim.Render(" as " + c.Character))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n" + styleDim.Render("Poster: "+d.Image) + "\n")
	return sb.String()
}
