package models

// LoggingConfig controls activity recording.
type LoggingConfig struct {
	Enabled         bool     `yaml:"enabled"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	MaxEntries      int      `yaml:"max_entries"`
	DebounceMS      int      `yaml:"debounce_ms"`
}

// GenerationConfig controls commit-message generation.
type GenerationConfig struct {
	Style         string `yaml:"style"` // "conventional" | "angular" | "gitmoji" | "custom"
	CustomPrompt  string `yaml:"custom_prompt"`
	Model         string `yaml:"model"`
	BaseURL       string `yaml:"base_url"`
	RecentEntries int    `yaml:"recent_entries"`
}

// TrayConfig holds system tray settings for the daemon.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Settings represents global application settings.
// This corresponds to ~/.commitsense/settings.yaml.
type Settings struct {
	Version    int              `yaml:"version"`
	LogLevel   string           `yaml:"log_level"`
	Logging    LoggingConfig    `yaml:"logging"`
	Generation GenerationConfig `yaml:"generation"`
	Tray       TrayConfig       `yaml:"tray"`
}

// Defaults for settings that may be left unset in settings.yaml.
const (
	DefaultMaxEntries    = 100
	DefaultDebounceMS    = 100
	DefaultStyle         = "conventional"
	DefaultModel         = "gpt-3.5-turbo"
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultRecentEntries = 50
)

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:  1,
		LogLevel: "info",
		Logging: LoggingConfig{
			Enabled:         false,
			ExcludePatterns: []string{},
			MaxEntries:      DefaultMaxEntries,
			DebounceMS:      DefaultDebounceMS,
		},
		Generation: GenerationConfig{
			Style:         DefaultStyle,
			CustomPrompt:  "",
			Model:         DefaultModel,
			BaseURL:       DefaultBaseURL,
			RecentEntries: DefaultRecentEntries,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
	}
}

// ApplyDefaults fills zero values left by a partial settings file.
func (s *Settings) ApplyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Logging.MaxEntries <= 0 {
		s.Logging.MaxEntries = DefaultMaxEntries
	}
	if s.Logging.DebounceMS <= 0 {
		s.Logging.DebounceMS = DefaultDebounceMS
	}
	if s.Generation.Style == "" {
		s.Generation.Style = DefaultStyle
	}
	if s.Generation.Model == "" {
		s.Generation.Model = DefaultModel
	}
	if s.Generation.BaseURL == "" {
		s.Generation.BaseURL = DefaultBaseURL
	}
	if s.Generation.RecentEntries <= 0 {
		s.Generation.RecentEntries = DefaultRecentEntries
	}
}
