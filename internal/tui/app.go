// internal/tui/app.go
//
// This is the terminal simulator for the dice game. The OLED is drawn with
// half-block characters, the beam sensor is a key.
//
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the last flushed frame, inversion, mode and game history
// 2. Update: key presses become sensor edges, panel output becomes messages
// 3. View: the frame inside a bordered screen plus a status line
//
// The game itself runs in the orchestrator's goroutines; the App only
// reflects what they flush.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
)

const historyWidth = 34

// ModeMsg reports a display mode announced by the game.
type ModeMsg struct {
	Mode display.Mode
}

// RoundMsg reports one played round.
type RoundMsg struct {
	GameID string
	Round  int
	Result game.Result
	Picked string
}

// EdgeSink receives beam edges. sensor.EdgeMailbox implements it.
type EdgeSink interface {
	Offer(sensor.Edge) bool
}

type keyMap struct {
	Beam key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Beam, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Beam}, {k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Beam: key.NewBinding(
			key.WithKeys("b", " "),
			key.WithHelp("b/space", "break or restore the beam"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type historyItem struct {
	title string
	desc  string
}

func (i historyItem) Title() string       { return i.title }
func (i historyItem) Description() string { return i.desc }
func (i historyItem) FilterValue() string { return i.title }

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithNow overrides the edge timestamp source.
func WithNow(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// App is the simulator model.
type App struct {
	edges EdgeSink
	now   func() time.Time

	frame    *display.Frame
	inverted bool
	mode     display.Mode
	broken   bool
	dropped  int

	gameID    string
	round     int
	lastRound game.Result
	games     list.Model

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewApp returns a simulator showing a blank width x height screen.
func NewApp(width, height int, edges EdgeSink, opts ...AppOption) *App {
	games := list.New(nil, list.NewDefaultDelegate(), historyWidth, height/2)
	games.Title = "Games"
	games.SetShowStatusBar(false)
	games.SetFilteringEnabled(false)
	games.SetShowHelp(false)

	a := &App{
		edges: edges,
		now:   time.Now,
		frame: display.NewFrame(width, height),
		games: games,
		keys:  defaultKeys(),
		help:  help.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd { return nil }

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.games.SetSize(historyWidth, max(4, msg.Height-4))
		return a, nil

	case FrameMsg:
		a.frame = msg.Frame
		return a, nil

	case InvertMsg:
		a.inverted = msg.Inverted
		return a, nil

	case ModeMsg:
		a.mode = msg.Mode
		return a, nil

	case RoundMsg:
		return a, a.recordRound(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
		case key.Matches(msg, a.keys.Beam):
			a.toggleBeam()
		}
	}
	return a, nil
}

func (a *App) toggleBeam() {
	a.broken = !a.broken
	level := sensor.Restored
	if a.broken {
		level = sensor.Broken
	}
	if !a.edges.Offer(sensor.Edge{Level: level, At: a.now()}) {
		a.dropped++
	}
}

func (a *App) recordRound(msg RoundMsg) tea.Cmd {
	a.gameID = msg.GameID
	a.round = msg.Round
	a.lastRound = msg.Result
	if !msg.Result.Terminal() {
		return nil
	}
	item := historyItem{
		title: describeResult(msg.Result),
		desc:  fmt.Sprintf("%s · %d rounds · %s", shortID(msg.GameID), msg.Round, msg.Picked),
	}
	return a.games.InsertItem(0, item)
}

// View renders the current state to a string.
func (a *App) View() string {
	screen := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Render(renderFrame(a.frame, a.inverted))

	body := screen
	if a.width == 0 || a.width >= lipgloss.Width(screen)+historyWidth+2 {
		history := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Render(a.games.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, screen, history)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render("2 · 4 · 18")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		a.renderStatus(),
		a.help.View(a.keys),
	)
}

func (a *App) renderStatus() string {
	beam := "intact"
	if a.broken {
		beam = "broken"
	}
	parts := []string{
		fmt.Sprintf("beam: %s", beam),
		fmt.Sprintf("mode: %s", a.mode),
	}
	if a.gameID != "" {
		parts = append(parts,
			fmt.Sprintf("game: %s", shortID(a.gameID)),
			fmt.Sprintf("round: %d", a.round),
			fmt.Sprintf("last: %s", a.lastRound),
		)
	}
	if a.dropped > 0 {
		parts = append(parts, fmt.Sprintf("dropped edges: %d", a.dropped))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(parts, "  ·  "))
}

// renderFrame draws two pixel rows per terminal line with half blocks.
func renderFrame(f *display.Frame, inverted bool) string {
	w, h := f.Size()
	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := f.On(x, y) != inverted
			bottom := y+1 < h && f.On(x, y+1) != inverted
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func describeResult(r game.Result) string {
	switch r.Kind {
	case game.Won:
		return "18! You win"
	case game.Fish:
		return "Fish"
	case game.GameOver:
		return fmt.Sprintf("Score %d", r.Score)
	default:
		return r.String()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
