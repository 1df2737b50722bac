package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/two-four-eighteen/internal/display"
	"github.com/kingrea/two-four-eighteen/internal/game"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
)

type edgeLog struct {
	edges []sensor.Edge
	full  bool
}

func (l *edgeLog) Offer(e sensor.Edge) bool {
	if l.full {
		return false
	}
	l.edges = append(l.edges, e)
	return true
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestApp(t *testing.T, sink EdgeSink) *App {
	t.Helper()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewApp(8, 4, sink, WithNow(func() time.Time {
		at = at.Add(time.Second)
		return at
	}))
}

func TestBeamKeyTogglesEdges(t *testing.T) {
	sink := &edgeLog{}
	app := newTestApp(t, sink)
	app.Update(runeKey('b'))
	app.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if len(sink.edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(sink.edges))
	}
	if sink.edges[0].Level != sensor.Broken || sink.edges[1].Level != sensor.Restored {
		t.Fatalf("expected broken then restored, got %v", sink.edges)
	}
	if !sink.edges[1].At.After(sink.edges[0].At) {
		t.Fatalf("edges should carry increasing timestamps")
	}
}

func TestFullMailboxIsReported(t *testing.T) {
	app := newTestApp(t, &edgeLog{full: true})
	app.Update(runeKey('b'))
	if !strings.Contains(app.View(), "dropped edges: 1") {
		t.Fatalf("expected dropped edge count in status")
	}
}

func TestQuitKey(t *testing.T) {
	app := newTestApp(t, &edgeLog{})
	_, cmd := app.Update(runeKey('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestRenderFrameHalfBlocks(t *testing.T) {
	f := display.NewFrame(3, 2)
	f.SetOn(0, 0, true)
	f.SetOn(1, 1, true)
	f.SetOn(2, 0, true)
	f.SetOn(2, 1, true)
	if got := renderFrame(f, false); got != "▀▄█" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := renderFrame(f, true); got != "▄▀ " {
		t.Fatalf("unexpected inverted rendering %q", got)
	}
}

func TestPanelDeliversFlushedFrames(t *testing.T) {
	var msgs []tea.Msg
	panel := NewPanel(8, 4, func(m tea.Msg) { msgs = append(msgs, m) })
	f := display.NewFrame(8, 4)
	f.SetOn(3, 3, true)
	if err := panel.Draw(f); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Fatalf("draw alone must not reach the terminal")
	}
	if err := panel.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := panel.SetInvert(true); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	frame, ok := msgs[0].(FrameMsg)
	if !ok || !frame.Frame.Equal(f) {
		t.Fatalf("expected flushed frame, got %#v", msgs[0])
	}
	if inv, ok := msgs[1].(InvertMsg); !ok || !inv.Inverted {
		t.Fatalf("expected invert message, got %#v", msgs[1])
	}

	app := newTestApp(t, &edgeLog{})
	app.Update(frame)
	app.Update(msgs[1])
	app.Update(ModeMsg{Mode: display.Blink})
	view := app.View()
	if !strings.Contains(view, "mode: blink") {
		t.Fatalf("status should show the mode:\n%s", view)
	}
}

func TestFinishedGamesAreListed(t *testing.T) {
	app := newTestApp(t, &edgeLog{})
	app.Update(RoundMsg{GameID: "0123456789", Round: 2, Result: game.Result{Kind: game.Playing}})
	if len(app.games.Items()) != 0 {
		t.Fatalf("rounds in progress must not be listed")
	}
	app.Update(RoundMsg{GameID: "0123456789", Round: 3, Result: game.Result{Kind: game.GameOver, Score: 13}, Picked: "{2,3,4,5,5}"})
	items := app.games.Items()
	if len(items) != 1 {
		t.Fatalf("expected one finished game, got %d", len(items))
	}
	item := items[0].(historyItem)
	if item.Title() != "Score 13" || !strings.Contains(item.Description(), "01234567") {
		t.Fatalf("unexpected history item %+v", item)
	}
	if !strings.Contains(app.View(), "round: 3") {
		t.Fatalf("status should show the round")
	}
}
