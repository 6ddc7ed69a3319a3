package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:        "samvad-news-reader",
		Env:            "prod",
		Query:          "apple",
		FromDays:       7,
		SortBy:         "publishedAt",
		HTTPTimeout:    time.Second,
		ImageTimeout:   time.Second,
		SearchDebounce: 20 * time.Millisecond,
	}
}

func TestResolveEnvironmentDefaults(t *testing.T) {
	env, err := resolveEnvironment(testConfig())
	if err != nil {
		t.Fatalf("resolveEnvironment: %v", err)
	}
	if env.Name != "prod" || env.BaseURL == "" || env.APIKey == "" {
		t.Fatalf("incomplete environment %+v", env)
	}
}

func TestResolveEnvironmentAppliesKeyOverride(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "override-key"
	env, err := resolveEnvironment(cfg)
	if err != nil {
		t.Fatalf("resolveEnvironment: %v", err)
	}
	if env.APIKey != "override-key" {
		t.Fatalf("api key override not applied, got %q", env.APIKey)
	}
}

func TestResolveEnvironmentRejectsUnknownName(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "staging"
	if _, err := resolveEnvironment(cfg); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
}

func TestBuildFanoutWithoutConfigIsEmpty(t *testing.T) {
	fanout, err := buildFanout(testConfig())
	if err != nil {
		t.Fatalf("buildFanout: %v", err)
	}
	if fanout.Size() != 0 {
		t.Fatalf("expected empty fanout, got %d", fanout.Size())
	}
}

func TestBuildFanoutFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: audit
    type: log
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := testConfig()
	cfg.NotifiersFile = path
	fanout, err := buildFanout(cfg)
	if err != nil {
		t.Fatalf("buildFanout: %v", err)
	}
	if fanout.Size() != 1 {
		t.Fatalf("expected 1 notifier, got %d", fanout.Size())
	}
}

func TestNewReaderWiresViewModel(t *testing.T) {
	reader, err := NewReader(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	if reader.ViewModel() == nil || reader.Images() == nil {
		t.Fatalf("reader missing collaborators")
	}
}
