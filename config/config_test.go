package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skirmish.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
initial_health: 120
base_power: 5
min_search_power: 6
max_search_power: 50
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Settings{InitialHealth: 120, BasePower: 5, MinSearchPower: 6, MaxSearchPower: 50}
	if s != want {
		t.Fatalf("settings = %+v, want %+v", s, want)
	}
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	path := writeConfig(t, "base_power: 7\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.BasePower != 7 {
		t.Fatalf("base power = %d, want 7", s.BasePower)
	}
	def := Default()
	if s.InitialHealth != def.InitialHealth || s.MaxSearchPower != def.MaxSearchPower {
		t.Fatalf("defaults not preserved: %+v", s)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"zero health":           "initial_health: 0\n",
		"negative power":        "base_power: -3\n",
		"inverted search range": "min_search_power: 50\nmax_search_power: 10\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseOptions(t *testing.T) {
	s := Settings{InitialHealth: 80, BasePower: 4, MaxSearchPower: 200}
	opts := s.ParseOptions()
	if opts.InitialHealth != 80 || opts.BasePower != 4 {
		t.Fatalf("opts = %+v", opts)
	}
}
