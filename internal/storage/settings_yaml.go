package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"zerohour/internal/store"
	"zerohour/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DefaultAlertMinutes int    `yaml:"default_alert_minutes"`
	DefaultSort         string `yaml:"default_sort"`
	DefaultFilter       string `yaml:"default_filter"`
	Notifications       bool   `yaml:"notifications"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		DefaultAlertMinutes: settings.DefaultAlertMinutes,
		DefaultSort:         string(settings.DefaultSort),
		DefaultFilter:       string(settings.DefaultFilter),
		Notifications:       settings.Notifications,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DefaultAlertMinutes >= 0 {
		settings.DefaultAlertMinutes = fileData.DefaultAlertMinutes
	}

	switch key := store.SortKey(fileData.DefaultSort); key {
	case store.SortTargetAsc, store.SortTargetDesc, store.SortNameAsc, store.SortNameDesc:
		settings.DefaultSort = key
	}

	switch key := store.StatusFilter(fileData.DefaultFilter); key {
	case store.FilterAll, store.FilterActive, store.FilterExpired:
		settings.DefaultFilter = key
	}

	settings.Notifications = fileData.Notifications
}
