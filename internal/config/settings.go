package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/commitsense/commitsense/internal/models"
)

// LoadSettings loads the global settings from ~/.commitsense/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

// SaveSettings saves the global settings to ~/.commitsense/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// SetLoggingEnabled persists the logging flag and returns the updated settings.
func SetLoggingEnabled(enabled bool) (*models.Settings, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	settings.Logging.Enabled = enabled
	if err := SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// settingKeys lists the dotted keys accepted by GetSetting and SetSetting.
var settingKeys = []string{
	"log_level",
	"logging.enabled",
	"logging.exclude_patterns",
	"logging.max_entries",
	"logging.debounce_ms",
	"generation.style",
	"generation.custom_prompt",
	"generation.model",
	"generation.base_url",
	"generation.recent_entries",
	"tray.enabled",
}

// SettingKeys returns the supported dotted keys in sorted order.
func SettingKeys() []string {
	keys := append([]string(nil), settingKeys...)
	sort.Strings(keys)
	return keys
}

// GetSetting returns the string form of a setting by dotted key.
func GetSetting(s *models.Settings, key string) (string, error) {
	switch key {
	case "log_level":
		return s.LogLevel, nil
	case "logging.enabled":
		return strconv.FormatBool(s.Logging.Enabled), nil
	case "logging.exclude_patterns":
		return strings.Join(s.Logging.ExcludePatterns, ","), nil
	case "logging.max_entries":
		return strconv.Itoa(s.Logging.MaxEntries), nil
	case "logging.debounce_ms":
		return strconv.Itoa(s.Logging.DebounceMS), nil
	case "generation.style":
		return s.Generation.Style, nil
	case "generation.custom_prompt":
		return s.Generation.CustomPrompt, nil
	case "generation.model":
		return s.Generation.Model, nil
	case "generation.base_url":
		return s.Generation.BaseURL, nil
	case "generation.recent_entries":
		return strconv.Itoa(s.Generation.RecentEntries), nil
	case "tray.enabled":
		return strconv.FormatBool(s.Tray.Enabled), nil
	default:
		return "", fmt.Errorf("unknown setting: %s", key)
	}
}

// SetSetting updates a setting by dotted key from its string form.
// exclude_patterns takes a comma-separated list; an empty value clears it.
func SetSetting(s *models.Settings, key, value string) error {
	switch key {
	case "log_level":
		s.LogLevel = value
	case "logging.enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		s.Logging.Enabled = b
	case "logging.exclude_patterns":
		s.Logging.ExcludePatterns = splitList(value)
	case "logging.max_entries":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		s.Logging.MaxEntries = n
	case "logging.debounce_ms":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		s.Logging.DebounceMS = n
	case "generation.style":
		s.Generation.Style = value
	case "generation.custom_prompt":
		s.Generation.CustomPrompt = value
	case "generation.model":
		s.Generation.Model = value
	case "generation.base_url":
		s.Generation.BaseURL = value
	case "generation.recent_entries":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		s.Generation.RecentEntries = n
	case "tray.enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		s.Tray.Enabled = b
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected 'true' or 'false' for %s, got: %s", key, value)
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive number for %s, got: %s", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
