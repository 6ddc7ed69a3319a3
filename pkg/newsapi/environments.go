package newsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Recognized deployment environments of the upstream news service.
const (
	EnvDev  = "dev"
	EnvQA   = "qa"
	EnvProd = "prod"
)

// sharedAPIKey is the single key issued for all environments in this scope.
const sharedAPIKey = "81ddf76c6cc14546bd547ccaa9a9b03f"

// Environment identifies one deployment of the upstream news service.
type Environment struct {
	Name    string `json:"name" yaml:"name"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
}

// DefaultEnvironments returns the built-in environment set used when no
// override file is configured.
func DefaultEnvironments() []Environment {
	return []Environment{
		{Name: EnvDev, BaseURL: "https://dev.example.com/newsapi", APIKey: sharedAPIKey},
		{Name: EnvQA, BaseURL: "https://qa.example.com/newsapi", APIKey: sharedAPIKey},
		{Name: EnvProd, BaseURL: "https://newsapi.org/v2", APIKey: sharedAPIKey},
	}
}

// environmentsFile represents the structure of the environments override file.
type environmentsFile struct {
	Environments []Environment `json:"environments" yaml:"environments"`
}

// EnvironmentRegistry resolves environment entries by name.
type EnvironmentRegistry struct {
	mu   sync.RWMutex
	envs []Environment
	idx  map[string]Environment
}

// NewEnvironmentRegistry builds a registry from the given entries.
func NewEnvironmentRegistry(envs ...Environment) (*EnvironmentRegistry, error) {
	reg := &EnvironmentRegistry{
		envs: make([]Environment, 0, len(envs)),
		idx:  make(map[string]Environment, len(envs)),
	}
	for i, env := range envs {
		env = sanitizeEnvironment(env)
		if err := validateEnvironment(env); err != nil {
			return nil, fmt.Errorf("environments[%d]: %w", i, err)
		}
		if _, exists := reg.idx[env.Name]; exists {
			return nil, fmt.Errorf("duplicate environment %q", env.Name)
		}
		reg.envs = append(reg.envs, env)
		reg.idx[env.Name] = env
	}
	return reg, nil
}

// LoadEnvironments loads the environment registry from a YAML/JSON file.
func LoadEnvironments(path string) (*EnvironmentRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("environments file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open environments file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read environments file: %w", err)
	}

	parsed, err := parseEnvironmentsFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Environments) == 0 {
		return nil, errors.New("environments file contains no environments entries")
	}

	return NewEnvironmentRegistry(parsed.Environments...)
}

func parseEnvironmentsFile(data []byte, ext string) (environmentsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed environmentsFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return environmentsFile{}, errors.New("environments file format not recognized (expected YAML or JSON)")
}

func sanitizeEnvironment(env Environment) Environment {
	env.Name = strings.ToLower(strings.TrimSpace(env.Name))
	env.BaseURL = strings.TrimSpace(env.BaseURL)
	env.APIKey = strings.TrimSpace(env.APIKey)
	if env.APIKey == "" {
		env.APIKey = sharedAPIKey
	}
	return env
}

func validateEnvironment(env Environment) error {
	if env.Name == "" {
		return errors.New("name is required")
	}
	if env.BaseURL == "" {
		return fmt.Errorf("base_url is required for environment %q", env.Name)
	}
	u, err := url.Parse(env.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url for environment %q is not an absolute URL", env.Name)
	}
	return nil
}

// ByName returns the environment entry for the given name, if present.
func (r *EnvironmentRegistry) ByName(name string) (Environment, bool) {
	if r == nil {
		return Environment{}, false
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Environment{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	env, ok := r.idx[name]
	return env, ok
}

// All returns a copy of the registered environments.
func (r *EnvironmentRegistry) All() []Environment {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Environment, len(r.envs))
	copy(out, r.envs)
	return out
}
