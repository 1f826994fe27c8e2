package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "quiz")

	log.Info().Str("category_id", "science").Msg("session started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "quiz" || entry["category_id"] != "science" || entry["message"] != "session started" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	_ = New(&buf, "loud", "json")

	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %s", got)
	}
}
