package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "twofour.log")
	l, err := New(path, "debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Component("game").Info().Str("game_id", "abc").Msg("round played")
	l.Printf("plain %d\n", 7)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line is not JSON: %q", scanner.Text())
		}
		lines = append(lines, entry)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["component"] != "game" || lines[0]["game_id"] != "abc" {
		t.Fatalf("missing fields in %v", lines[0])
	}
	if lines[1]["message"] != "plain 7" {
		t.Fatalf("unexpected message %v", lines[1]["message"])
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel(""); err != nil || lvl != zerolog.InfoLevel {
		t.Fatalf("empty level should default to info, got %v %v", lvl, err)
	}
	if lvl, err := ParseLevel(" DEBUG "); err != nil || lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNilAndNopAreSafe(t *testing.T) {
	var l *Logger
	l.Printf("ignored")
	if err := l.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
	Nop().Component("x").Printf("ignored")
}
