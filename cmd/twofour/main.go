// cmd/twofour/main.go
//
// This is the desktop simulator for the dice game. The OLED is drawn in the
// terminal and the beam sensor is the b key.
//
// Flow:
// 1. Load .env, create .twofour/ and read the config
// 2. Open the log file (the terminal belongs to the TUI)
// 3. Start the orchestrator's tasks and the bubbletea program
// 4. Cancel the tasks when the program exits
//
// With -simulate N it instead plays N seeded games and prints the score
// distribution.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/two-four-eighteen/internal/config"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/logging"
	"github.com/kingrea/two-four-eighteen/internal/orchestrator"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
	"github.com/kingrea/two-four-eighteen/internal/tui"
)

func main() {
	projectDir := flag.String("project", "", "directory holding .twofour/ (defaults to cwd)")
	simulate := flag.Int("simulate", 0, "play this many seeded games headless and print statistics")
	from := flag.Uint64("from", 1, "first seed used by -simulate")
	flag.Parse()

	if *simulate > 0 {
		printStats(game.Simulate(*from, *simulate))
		return
	}

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	project, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.LoadDotEnv(project); err != nil {
		die("%v", err)
	}
	if err := config.Init(project); err != nil {
		die("init .twofour: %v", err)
	}
	cfg, err := config.Load(project)
	if err != nil {
		die("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogPath(), cfg.Settings.Log.Level)
	if err != nil {
		die("open log: %v", err)
	}
	defer logger.Close()

	settings := cfg.Settings
	mailbox := sensor.NewEdgeMailbox(settings.Channels.Edges)
	app := tui.NewApp(settings.Display.Width, settings.Display.Height, mailbox)
	p := tea.NewProgram(app, tea.WithAltScreen())
	panel := tui.NewPanel(settings.Display.Width, settings.Display.Height, p.Send)

	orch, err := orchestrator.New(settings, panel, mailbox.Edges(),
		orchestrator.WithLogger(logger),
		orchestrator.WithObserver(func(ev orchestrator.RoundEvent) {
			p.Send(tui.RoundMsg{
				GameID: ev.GameID,
				Round:  ev.Round,
				Result: ev.Result,
				Picked: ev.Picked.String(),
			})
		}),
	)
	if err != nil {
		die("build tasks: %v", err)
	}

	modes := orch.Modes().Subscribe("tui")
	go func() {
		for mode := range modes.Values {
			p.Send(tui.ModeMsg{Mode: mode})
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orch.Run(ctx) }()

	logger.Info().Str("project", project).Msg("simulator started")
	_, runErr := p.Run()
	cancel()
	if err := <-done; err != nil {
		logger.Error().Err(err).Msg("tasks stopped with error")
	}
	if mailbox.Dropped() > 0 {
		logger.Warn().Uint64("dropped", mailbox.Dropped()).Msg("edges dropped")
	}
	if runErr != nil {
		die("run TUI: %v", runErr)
	}
}

func printStats(s game.Stats) {
	fmt.Printf("games: %d  wins: %d  fish: %d  rolls/game: %.2f  mean score: %.2f\n",
		s.Games, s.Wins, s.Fish, float64(s.Rolls)/float64(max(s.Games, 1)), s.MeanScore())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "score\tgames\tshare")
	for _, score := range s.SortedScores() {
		count := s.Scores[score]
		fmt.Fprintf(w, "%d\t%d\t%.1f%%\n", score, count, 100*float64(count)/float64(s.Games))
	}
	w.Flush()
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
