package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.nbai/config.yaml (overridable
// via NBAI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path exposes the resolved config file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("NBAI_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".nbai", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Reset rewrites the config file with defaults and returns them.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	cfg := defaultConfig()
	if err := writeDefault(path, cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// DefaultConfig exposes the built-in defaults.
func DefaultConfig() domain.Config {
	return defaultConfig()
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			DefaultModel:   "claude-sonnet-4",
			TimeoutSeconds: 30,
		},
		Storage: domain.StorageSettings{
			Backend: "sqlite",
			Dir:     filepath.Join(userHomeDir(), ".nbai"),
		},
		Suggestions: domain.SuggestionSettings{
			BaseScore:       domain.BaseSuggestionScore,
			AcceptDelta:     domain.DefaultAcceptDelta,
			DislikeDelta:    domain.DefaultDislikeDelta,
			MaxPerTrigger:   domain.DefaultMaxPerTrigger,
			DebounceQuietMS: int(domain.DefaultDebounceQuiet.Milliseconds()),
			Triggers:        []string{"function", "loop", "fetch", "plot", "import", "class"},
		},
		Models: []domain.ModelDefinition{
			{
				Name:       "claude-sonnet-4",
				Endpoint:   "https://api.anthropic.com/v1/messages",
				AuthEnvVar: "ANTHROPIC_API_KEY",
				ModelID:    "claude-3-5-sonnet-20240620",
				MaxTokens:  domain.DefaultMaxTokens,
			},
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 30
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filepath.Join(userHomeDir(), ".nbai")
	}
	if cfg.Suggestions.BaseScore == 0 {
		cfg.Suggestions.BaseScore = domain.BaseSuggestionScore
	}
	if cfg.Suggestions.AcceptDelta == 0 {
		cfg.Suggestions.AcceptDelta = domain.DefaultAcceptDelta
	}
	if cfg.Suggestions.DislikeDelta == 0 {
		cfg.Suggestions.DislikeDelta = domain.DefaultDislikeDelta
	}
	if cfg.Suggestions.MaxPerTrigger == 0 {
		cfg.Suggestions.MaxPerTrigger = domain.DefaultMaxPerTrigger
	}
	if cfg.Suggestions.DebounceQuietMS == 0 {
		cfg.Suggestions.DebounceQuietMS = int(domain.DefaultDebounceQuiet.Milliseconds())
	}
	if len(cfg.Suggestions.Triggers) == 0 {
		cfg.Suggestions.Triggers = []string{"function", "loop", "fetch", "plot", "import", "class"}
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
