package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/tui"
)

var (
	flagPick    int
	flagBest    bool
	flagSeason  int
	flagEpisode int
	flagYes     bool
	flagNoTUI   bool
)

var movieCmd = &cobra.Command{
	Use:     "movie <title>",
	Aliases: []string{"regrab_movie"},
	Short:   "Delete a movie file and grab it again",
	Example: `  regrab movie "the matrix"
  regrab movie --best --yes "the matrix"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegrab(cmd, arr.KindMovie, args)
	},
}

var episodeCmd = &cobra.Command{
	Use:     "episode <series>",
	Aliases: []string{"regrab_episode", "series"},
	Short:   "Delete an episode file and grab it again",
	Example: `  regrab episode "the office"
  regrab episode --best --season 2 --episode 5 --yes "the office"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegrab(cmd, arr.KindSeries, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{movieCmd, episodeCmd} {
		c.Flags().IntVar(&flagPick, "pick", 0, "Choose the Nth search result (1-based)")
		c.Flags().BoolVar(&flagBest, "best", false, "Choose the closest-matching search result")
		c.Flags().BoolVarP(&flagYes, "yes", "y", false, "Confirm without asking")
		c.Flags().BoolVar(&flagNoTUI, "no-tui", false, "Use plain prompts instead of the terminal UI")
		rootCmd.AddCommand(c)
	}
	episodeCmd.Flags().IntVar(&flagSeason, "season", -1, "Season number")
	episodeCmd.Flags().IntVar(&flagEpisode, "episode", -1, "Episode number")
}

func runRegrab(cmd *cobra.Command, kind arr.Kind, args []string) error {
	query := strings.Join(args, " ")
	ans := answers{
		pick:    flagPick,
		best:    flagBest,
		season:  flagSeason,
		episode: flagEpisode,
		yes:     flagYes,
	}
	if kind == arr.KindMovie {
		ans.season, ans.episode = -1, -1
	}

	out := cmd.OutOrStdout()
	interactive := !flagNoTUI && !ans.scripted() && isTerminal(out)

	// The terminal UI owns the screen; logs go to the log file only.
	var console io.Writer = cmd.ErrOrStderr()
	if interactive {
		console = io.Discard
	}

	// --best ranks the results by title similarity so the first one is the closest match.
	app, cleanup, err := openApp(cmd.Context(), console, func(c *config.Config) {
		if ans.best {
			c.Session.RankResults = true
		}
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if interactive {
		err := tui.Run(cmd.Context(), app.Sessions, kind, query, out)
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}
	return runScripted(cmd.Context(), app.Sessions, kind, query, ans, cmd.InOrStdin(), out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
