package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:   "error",
		EnvLogNoColor: "true",
	}
	cfg := DefaultConfig(ProfileRuntime)
	ApplyEnvOverrides(&cfg, func(k string) string { return env[k] })
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("level: got %v", cfg.Level)
	}
	if !cfg.NoColor {
		t.Fatalf("expected NoColor")
	}

	cfg = DefaultConfig(ProfileRuntime)
	ApplyEnvOverrides(&cfg, func(k string) string { return "garbage" })
	if cfg.Level != zerolog.InfoLevel || cfg.NoColor {
		t.Fatalf("garbage env should be ignored: %+v", cfg)
	}
}

func TestNew_WritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig(ProfileTest)
	cfg.Out = &buf
	cfg.Level = zerolog.InfoLevel

	l := New(cfg, "pigeon-parse")
	l.Debug().Msg("hidden")
	l.Info().Str("cid", "bafk").Msg("stored")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	for _, want := range []string{"stored", "cid=bafk", "app=pigeon-parse"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestResolve_EnvBeatsExplicitLevel(t *testing.T) {
	cfg := Resolve(ProfileRuntime, "debug", func(string) string { return "" })
	if cfg.Level != zerolog.DebugLevel {
		t.Fatalf("explicit level: got %v", cfg.Level)
	}
	cfg = Resolve(ProfileRuntime, "debug", func(k string) string {
		if k == EnvLogLevel {
			return "warn"
		}
		return ""
	})
	if cfg.Level != zerolog.WarnLevel {
		t.Fatalf("env level: got %v", cfg.Level)
	}
}
