package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	AppName        = "momentum"
	configFileName = "config.yaml"

	// EnvConfig overrides the config file location.
	EnvConfig = "MOMENTUM_CONFIG"
	// EnvDebug enables logging to momentum.log in the working directory.
	EnvDebug = "MOMENTUM_DEBUG"

	DefaultName  = "Friend"
	DefaultQuote = "The best way to predict the future is to create it."
)

// Sound selects the transition sound.
type Sound string

const (
	SoundBell Sound = "bell"
	SoundBeep Sound = "beep"
	SoundOff  Sound = "off"
)

// Config holds the user's file-based preferences.
type Config struct {
	Name          string
	Quote         string
	DBPath        string
	Notifications bool
	Sound         Sound
	LogFile       string
}

type yamlConfig struct {
	Name          string `yaml:"name"`
	Quote         string `yaml:"quote"`
	DBPath        string `yaml:"db_path"`
	Notifications *bool  `yaml:"notifications"`
	Sound         string `yaml:"sound"`
	LogFile       string `yaml:"log_file"`
}

// Default returns the configuration used when no file exists. DBPath is
// left empty; callers resolve it with the store's default.
func Default() Config {
	return Config{
		Name:          DefaultName,
		Quote:         DefaultQuote,
		Notifications: true,
		Sound:         SoundBell,
	}
}

// Load reads the config file at path.
// If the file does not exist, the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var file yamlConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	apply(&cfg, file)
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := cfg.Notifications
	file := yamlConfig{
		Name:          cfg.Name,
		Quote:         cfg.Quote,
		DBPath:        cfg.DBPath,
		Notifications: &notifications,
		Sound:         string(cfg.Sound),
		LogFile:       cfg.LogFile,
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Path returns $MOMENTUM_CONFIG or ~/.config/momentum/config.yaml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, AppName, configFileName), nil
}

func apply(cfg *Config, file yamlConfig) {
	if name := strings.TrimSpace(file.Name); name != "" {
		cfg.Name = name
	}
	if quote := strings.TrimSpace(file.Quote); quote != "" {
		cfg.Quote = quote
	}
	if file.DBPath != "" {
		cfg.DBPath = expandHome(file.DBPath)
	}
	if file.Notifications != nil {
		cfg.Notifications = *file.Notifications
	}
	switch Sound(strings.ToLower(strings.TrimSpace(file.Sound))) {
	case SoundBell:
		cfg.Sound = SoundBell
	case SoundBeep:
		cfg.Sound = SoundBeep
	case SoundOff:
		cfg.Sound = SoundOff
	}
	if file.LogFile != "" {
		cfg.LogFile = expandHome(file.LogFile)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}
