package domain

// Config mirrors ~/.nbai/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Preferences         Preferences        `yaml:"preferences"`
	Storage             StorageSettings    `yaml:"storage"`
	Suggestions         SuggestionSettings `yaml:"suggestions"`
	Models              []ModelDefinition  `yaml:"models"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// StorageSettings selects and locates the key-value backend.
type StorageSettings struct {
	// Backend is "sqlite" or "file".
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// SuggestionSettings tunes the proactive suggestion engine.
type SuggestionSettings struct {
	BaseScore       int      `yaml:"base_score"`
	AcceptDelta     int      `yaml:"accept_delta"`
	DislikeDelta    int      `yaml:"dislike_delta"`
	MaxPerTrigger   int      `yaml:"max_per_trigger"`
	DebounceQuietMS int      `yaml:"debounce_quiet_ms"`
	Triggers        []string `yaml:"triggers"`
}
