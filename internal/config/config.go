package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all user-tunable settings.
type Config struct {
	Audio   AudioConfig   `mapstructure:"audio"`
	Journey JourneyConfig `mapstructure:"journey"`
	Log     LogConfig     `mapstructure:"log"`
}

// AudioConfig controls word playback.
type AudioConfig struct {
	// Enabled gates the listening activities. When no player binary or
	// audio files are found it is overridden to off at startup.
	Enabled bool `mapstructure:"enabled"`
	// Voice pins playback to one voice; empty picks randomly per word.
	Voice string `mapstructure:"voice"`
}

// JourneyConfig controls the adaptive session mode.
type JourneyConfig struct {
	AutoAdvance      bool `mapstructure:"auto_advance"`
	AutoAdvanceDelay int  `mapstructure:"auto_advance_delay"` // seconds
	ChoiceCount      int  `mapstructure:"choice_count"`
}

// Delay returns the auto-advance delay as a duration.
func (j JourneyConfig) Delay() time.Duration {
	return time.Duration(j.AutoAdvanceDelay) * time.Second
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File overrides the default log file path under the state dir.
	File string `mapstructure:"file"`
}

// Load reads configuration from the config file and TRAKAIDO_*
// environment variables. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("TRAKAIDO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to the config file, creating the
// directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("audio.enabled", c.Audio.Enabled)
	v.Set("audio.voice", c.Audio.Voice)
	v.Set("journey.auto_advance", c.Journey.AutoAdvance)
	v.Set("journey.auto_advance_delay", c.Journey.AutoAdvanceDelay)
	v.Set("journey.choice_count", c.Journey.ChoiceCount)
	v.Set("log.level", c.Log.Level)
	v.Set("log.file", c.Log.File)

	if err := v.WriteConfigAs(filepath.Join(dir, "config.yaml")); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Dir returns the configuration directory:
// $XDG_CONFIG_HOME/trakaido or ~/.config/trakaido.
func Dir() (string, error) {
	confHome := os.Getenv("XDG_CONFIG_HOME")
	if confHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		confHome = filepath.Join(home, ".config")
	}
	return filepath.Join(confHome, "trakaido"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.voice", "")

	v.SetDefault("journey.auto_advance", true)
	v.SetDefault("journey.auto_advance_delay", 3)
	v.SetDefault("journey.choice_count", 4)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}
