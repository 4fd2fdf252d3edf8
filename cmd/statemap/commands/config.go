package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".statemap"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for statemap settings.
const envPrefix = "STATEMAP"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Workload defaults.
const (
	defaultBenchRooms   = 100
	defaultBenchMembers = 500
	defaultBenchUsers   = 2000
)

// Config holds CLI configuration.
type Config struct {
	Bench BenchConfig `mapstructure:"bench"`
}

// BenchConfig shapes the synthetic room-state workload.
type BenchConfig struct {
	// Rooms is the number of room snapshots to build.
	Rooms int `mapstructure:"rooms"`
	// Members is the number of membership entries per room.
	Members int `mapstructure:"members"`
	// Users is the size of the user pool rooms draw their members
	// from. Smaller pools mean more cross-room string repetition.
	Users int `mapstructure:"users"`
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file
// path; otherwise the config file is searched in CWD and $HOME.
// A missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			// An explicit path that does not exist surfaces as a
			// plain fs error, not ConfigFileNotFoundError.
			if configPath == "" || !errors.Is(readErr, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", readErr)
			}
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects non-positive workload dimensions.
func (c *Config) Validate() error {
	if c.Bench.Rooms <= 0 {
		return fmt.Errorf("bench.rooms must be positive, got %d", c.Bench.Rooms)
	}

	if c.Bench.Members <= 0 {
		return fmt.Errorf("bench.members must be positive, got %d", c.Bench.Members)
	}

	if c.Bench.Users <= 0 {
		return fmt.Errorf("bench.users must be positive, got %d", c.Bench.Users)
	}

	return nil
}

// applyDefaults seeds viper with the default workload shape.
func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("bench.rooms", defaultBenchRooms)
	viperCfg.SetDefault("bench.members", defaultBenchMembers)
	viperCfg.SetDefault("bench.users", defaultBenchUsers)
}
