package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		" warn ":   zerolog.WarnLevel,
		"-1":       zerolog.TraceLevel,
		"info":     zerolog.InfoLevel,
		"unknown":  zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New("warn", &buf), "loop")

	log.Info().Msg("hidden")
	log.Warn().Int("tick", 3).Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=loop") || !strings.Contains(out, "tick=3") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, closer, err := NewFile("info", dir, "live")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	log.Info().Msg("hello")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, "live.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}
