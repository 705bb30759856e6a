package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/reelview/internal/catalog"
	"github.com/vadimtrunov/reelview/internal/core"
)

// listOptions are the flags shared by list commands.
type listOptions struct {
	sort  string
	genre string
	limit int
	json  bool
}

func addListFlags(cmd *cobra.Command, opts *listOptions) {
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort order: year, rating or title (default: API order)")
	cmd.Flags().StringVar(&opts.genre, "genre", "", "only show movies of this genre")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "show at most this many movies (0 = all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
}

// apply filters, sorts and limits movies in that order.
func (o listOptions) apply(movies []core.Movie) ([]core.Movie, error) {
	if o.genre != "" {
		movies = catalog.FilterByGenre(movies, o.genre)
	}
	if o.sort != "" {
		order, err := catalog.ParseSortOrder(o.sort)
		if err != nil {
			return nil, err
		}
		movies = catalog.Sort(movies, order)
	}
	if o.limit > 0 && len(movies) > o.limit {
		movies = movies[:o.limit]
	}
	return movies, nil
}

// render formats movies as a table or as JSON.
func (o listOptions) render(header string, movies []core.Movie) (string, error) {
	if o.json {
		return renderJSON(movies)
	}
	return renderMovies(header, movies), nil
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data) + "\n", nil
}

// listCommand builds a command that fetches one list and prints it.
func listCommand(
	use, short, header string,
	args cobra.PositionalArgs,
	fetch func(ctx context.Context, svc *catalog.Service, args []string) ([]core.Movie, error),
) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.sort != "" {
				if _, err := catalog.ParseSortOrder(opts.sort); err != nil {
					return err
				}
			}
			_, _, svc, err := setup(cmd)
			if err != nil {
				return err
			}
			title := header
			if len(args) > 0 {
				title = fmt.Sprintf("%s: %s", header, strings.Join(args, " "))
			}
			return runFetch(cmd.OutOrStdout(), strings.ToLower(header), func(ctx context.Context) (string, error) {
				movies, err := fetch(ctx, svc, args)
				if err != nil {
					return "", err
				}
				if movies, err = opts.apply(movies); err != nil {
					return "", err
				}
				return opts.render(title, movies)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newLowestCmd() *cobra.Command {
	return listCommand("lowest", "List the lowest-rated movies", "Lowest rated", cobra.NoArgs,
		func(ctx context.Context, svc *catalog.Service, _ []string) ([]core.Movie, error) {
			return svc.LowestRated(ctx)
		})
}

func newTopCmd() *cobra.Command {
	return listCommand("top", "List the top-rated movies", "Top rated", cobra.NoArgs,
		func(ctx context.Context, svc *catalog.Service, _ []string) ([]core.Movie, error) {
			return svc.TopRated(ctx)
		})
}

func newSearchCmd() *cobra.Command {
	cmd := listCommand("search [query]", "Search movies by title", "Search", cobra.MinimumNArgs(1),
		func(ctx context.Context, svc *catalog.Service, args []string) ([]core.Movie, error) {
			return svc.Search(ctx, strings.Join(args, " "))
		})
	cmd.Example = `  reelview search the dark knight
  reelview search alien --sort year --limit 5`
	return cmd
}

func newGenreCmd() *cobra.Command {
	cmd := listCommand("genre [name]", "List top-rated movies of a genre", "Genre", cobra.ExactArgs(1),
		func(ctx context.Context, svc *catalog.Service, args []string) ([]core.Movie, error) {
			return svc.ByGenre(ctx, args[0])
		})
	cmd.Example = `  reelview genre Drama --sort rating`
	return cmd
}

// newHomeCmd prints the home screen sections of the lowest-rated list.
func newHomeCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show the home screen sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.sort != "" {
				if _, err := catalog.ParseSortOrder(opts.sort); err != nil {
					return err
				}
			}
			_, _, svc, err := setup(cmd)
			if err != nil {
				return err
			}
			return runFetch(cmd.OutOrStdout(), "home", func(ctx context.Context) (string, error) {
				sections, err := svc.Home(ctx)
				if err != nil {
					return "", err
				}
				if sections, err = opts.applySections(sections); err != nil {
					return "", err
				}
				if opts.json {
					return renderJSON(sections)
				}
				return renderSections(sections), nil
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

// applySections applies the list options to every home section.
func (o listOptions) applySections(s catalog.Sections) (catalog.Sections, error) {
	var err error
	for _, section := range []*[]core.Movie{&s.Popular, &s.LowestRated, &s.All} {
		if *section, err = o.apply(*section); err != nil {
			return catalog.Sections{}, err
		}
	}
	return s, nil
}

func renderSections(s catalog.Sections) string {
	genres := catalog.Genres(s.All)
	footer := fmt.Sprintf("%d movies in total", len(s.All))
	if len(genres) > 0 {
		footer += " · genres: " + strings.Join(genres, ", ")
	}
	return renderMovies("Popular", s.Popular) + "\n" +
		renderMovies("Lowest rated", s.LowestRated) + "\n" +
		styleDim.Render(footer) + "\n"
}

// newDetailsCmd prints the details of one movie.
func newDetailsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "details [id]",
		Short:   "Show the details of a movie",
		Example: `  reelview details tt0111161`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, svc, err := setup(cmd)
			if err != nil {
				return err
			}
			return runFetch(cmd.OutOrStdout(), "details", func(ctx context.Context) (string, error) {
				details, err := svc.Details(ctx, args[0])
				if err != nil {
					return "", err
				}
				if asJSON {
					return renderJSON(details)
				}
				return renderDetails(details), nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
