package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Quiz.QuestionTime != 30*time.Second {
		t.Errorf("question time = %s", cfg.Quiz.QuestionTime)
	}
	if cfg.Quiz.RevealDelay != 1500*time.Millisecond {
		t.Errorf("reveal delay = %s", cfg.Quiz.RevealDelay)
	}
	if cfg.Results.BatchSize != 50 || cfg.Results.FlushInterval != 2*time.Second {
		t.Errorf("results = %+v", cfg.Results)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("jwt expiry = %s", cfg.JWTExpiry)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_DB_CONNS", "4")
	t.Setenv("QUIZ_QUESTION_TIME", "10s")
	t.Setenv("QUIZ_REVEAL_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "9090" || cfg.MaxDBConns != 4 {
		t.Errorf("server = %s, conns = %d", cfg.ServerPort, cfg.MaxDBConns)
	}
	if cfg.Quiz.QuestionTime != 10*time.Second || cfg.Quiz.RevealDelay != 250*time.Millisecond {
		t.Errorf("quiz = %+v", cfg.Quiz)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsSubSecondQuestionTime(t *testing.T) {
	t.Setenv("QUIZ_QUESTION_TIME", "500ms")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"https://x.example", []string{"https://x.example"}},
		{" a , ,b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := parseOrigins(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
