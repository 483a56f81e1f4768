// Package config resolves cbprobe settings from an optional YAML file, a .env
// file and COUCHBASE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

// EnvPrefix is the prefix of environment overrides, e.g. COUCHBASE_USERNAME.
const EnvPrefix = "COUCHBASE"

// Config holds probe defaults. Command-line flags take precedence over it.
type Config struct {
	Port     int          `mapstructure:"port"`
	Username string       `mapstructure:"username"`
	Password string       `mapstructure:"password"`
	Format   string       `mapstructure:"format"`
	Trace    string       `mapstructure:"trace"`
	Bucket   BucketConfig `mapstructure:"bucket"`
}

// BucketConfig holds bucket check thresholds.
type BucketConfig struct {
	WarningQuota  string            `mapstructure:"warning_quota"`
	CriticalQuota string            `mapstructure:"critical_quota"`
	Stats         []checks.StatRule `mapstructure:"stats"`
}

// envOverrides is populated from COUCHBASE_* variables.
type envOverrides struct {
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	Port     int    `envconfig:"PORT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:   couchbase.DefaultPort,
		Format: "nagios",
		Trace:  "none",
		Bucket: BucketConfig{
			WarningQuota:  checks.DefaultWarningQuota,
			CriticalQuota: checks.DefaultCriticalQuota,
			Stats:         checks.DefaultStatRules(),
		},
	}
}

// Options selects the files Load reads. Empty paths are skipped.
type Options struct {
	File    string
	EnvFile string
}

// Load builds the configuration: defaults, then the YAML file, then the
// environment (after loading the .env file, which never overrides variables
// already set).
func Load(opts Options, logger *logrus.Logger) (Config, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	cfg := Default()

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("cannot load env file %q: %w", opts.EnvFile, err)
			}
		} else {
			logger.WithField("file", opts.EnvFile).Debug("Loaded env file")
		}
	}

	if opts.File != "" {
		v := viper.New()
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read config file: %w", err)
		}
		// Decoding merges into existing slice elements, so a configured
		// stats list must start from empty to replace the defaults.
		cfg.Bucket.Stats = nil
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot parse config file: %w", err)
		}
		if cfg.Bucket.Stats == nil {
			cfg.Bucket.Stats = checks.DefaultStatRules()
		}
		logger.WithField("file", v.ConfigFileUsed()).Debug("Loaded config file")
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	if env.Username != "" {
		cfg.Username = env.Username
	}
	if env.Password != "" {
		cfg.Password = env.Password
	}
	if env.Port != 0 {
		cfg.Port = env.Port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate performs basic validation on the configuration.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	for i, rule := range c.Bucket.Stats {
		if rule.Name == "" {
			return fmt.Errorf("bucket.stats[%d]: name is required", i)
		}
	}
	return nil
}
