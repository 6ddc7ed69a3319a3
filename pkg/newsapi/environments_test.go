package newsapi

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultEnvironmentsCoverRecognizedNames(t *testing.T) {
	reg, err := NewEnvironmentRegistry(DefaultEnvironments()...)
	if err != nil {
		t.Fatalf("NewEnvironmentRegistry: %v", err)
	}

	for _, name := range []string{EnvDev, EnvQA, EnvProd} {
		env, ok := reg.ByName(name)
		if !ok {
			t.Fatalf("environment %q missing from defaults", name)
		}
		if env.BaseURL == "" || env.APIKey == "" {
			t.Fatalf("environment %q incomplete: %+v", name, env)
		}
	}

	if prod, _ := reg.ByName(EnvProd); prod.BaseURL != "https://newsapi.org/v2" {
		t.Fatalf("unexpected prod base url %q", prod.BaseURL)
	}
}

func TestByNameNormalizesLookup(t *testing.T) {
	reg, err := NewEnvironmentRegistry(DefaultEnvironments()...)
	if err != nil {
		t.Fatalf("NewEnvironmentRegistry: %v", err)
	}
	if _, ok := reg.ByName("  PROD "); !ok {
		t.Fatalf("expected case-insensitive trimmed lookup to succeed")
	}
	if _, ok := reg.ByName("staging"); ok {
		t.Fatalf("unexpected match for unknown environment")
	}
}

func TestLoadEnvironmentsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "environments.yaml")
	raw := `
environments:
  - name: dev
    base_url: https://dev.internal/newsapi
    api_key: dev-key
  - name: prod
    base_url: https://newsapi.org/v2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadEnvironments(path)
	if err != nil {
		t.Fatalf("LoadEnvironments: %v", err)
	}

	dev, ok := reg.ByName("dev")
	if !ok || dev.BaseURL != "https://dev.internal/newsapi" || dev.APIKey != "dev-key" {
		t.Fatalf("unexpected dev entry %+v", dev)
	}
	prod, _ := reg.ByName("prod")
	if prod.APIKey == "" {
		t.Fatalf("expected shared key fallback for prod, got empty")
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 environments, got %d", len(reg.All()))
	}
}

func TestNewEnvironmentRegistryRejectsBadEntries(t *testing.T) {
	if _, err := NewEnvironmentRegistry(Environment{Name: "", BaseURL: "https://x"}); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := NewEnvironmentRegistry(Environment{Name: "dev", BaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error for relative base url")
	}
	if _, err := NewEnvironmentRegistry(
		Environment{Name: "dev", BaseURL: "https://a"},
		Environment{Name: "DEV", BaseURL: "https://b"},
	); err == nil {
		t.Fatalf("expected duplicate environment error")
	}
}

func TestEndpointURLPreservesBasePath(t *testing.T) {
	ep := Everything("apple", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "", "k")

	u, err := ep.URL("https://newsapi.org/v2/")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if want := "https://newsapi.org/v2/everything"; u[:len(want)] != want {
		t.Fatalf("unexpected url %q", u)
	}

	if _, err := ep.URL("://broken"); err == nil {
		t.Fatalf("expected error for unparseable base url")
	}
}

func TestEndpointWithDoesNotMutateOriginal(t *testing.T) {
	ep := Everything("apple", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "", "k")
	extended := ep.With("language", "en")

	if ep.Query.Get("language") != "" {
		t.Fatalf("original endpoint mutated: %v", ep.Query)
	}
	if extended.Query.Get("language") != "en" || extended.Query.Get("q") != "apple" {
		t.Fatalf("unexpected extended query %v", extended.Query)
	}
}
