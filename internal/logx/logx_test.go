package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, false, true), "pipeline")
	log.Debug().Msg("hidden")
	log.Info().Int("images", 3).Msg("scan done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 record, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["component"] != "pipeline" || rec["message"] != "scan done" || rec["images"] != float64(3) {
		t.Errorf("record: %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestNewVerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)
	log.Debug().Str("key", "cat").Msg("processing")
	out := buf.String()
	if !strings.Contains(out, "processing") || !strings.Contains(out, "key=cat") {
		t.Errorf("console output: %q", out)
	}
}
