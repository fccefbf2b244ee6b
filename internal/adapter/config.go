package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Player   PlayerConfig   `mapstructure:"player"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Routes   RoutesConfig   `mapstructure:"routes"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PlayerConfig holds media engine configuration
type PlayerConfig struct {
	Command   string   `mapstructure:"command"`    // mpv binary
	Args      []string `mapstructure:"args"`       // extra player arguments
	SocketDir string   `mapstructure:"socket_dir"` // IPC socket directory, empty for tmp
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // directory for the position database
}

// PlaybackConfig holds coordinator timing configuration
type PlaybackConfig struct {
	SettleDelayMs   int     `mapstructure:"settle_delay_ms"`   // restore settle delay
	SaveIntervalSec float64 `mapstructure:"save_interval_sec"` // position checkpoint granularity
	Volume          float64 `mapstructure:"volume"`            // initial volume 0..1
}

// RoutesConfig holds the navigation allowlist
type RoutesConfig struct {
	// TutorialHomes are extra route prefixes that host an inline tutorial
	// slot, merged with the catalog's own home routes.
	TutorialHomes []string `mapstructure:"tutorial_homes"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SettleDelay returns the configured settle delay as a duration.
func (c PlaybackConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Storage: StorageConfig{
			Path: defaultDataPath(),
		},
		Playback: PlaybackConfig{
			SettleDelayMs:   300,
			SaveIntervalSec: 10,
			Volume:          1.0,
		},
		Routes: RoutesConfig{
			TutorialHomes: []string{"/tutorials"},
		},
		UI: UIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tutordock", "tutordock.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tutordock", "tutordock.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tutordock")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tutordock")
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "tutordock")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tutordock")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("TUTORDOCK")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.socket_dir", cfg.Player.SocketDir)

	viper.Set("storage.path", cfg.Storage.Path)

	viper.Set("playback.settle_delay_ms", cfg.Playback.SettleDelayMs)
	viper.Set("playback.save_interval_sec", cfg.Playback.SaveIntervalSec)
	viper.Set("playback.volume", cfg.Playback.Volume)

	viper.Set("routes.tutorial_homes", cfg.Routes.TutorialHomes)

	viper.Set("ui.theme", cfg.UI.Theme)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
