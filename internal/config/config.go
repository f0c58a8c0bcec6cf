package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/pgscout/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval  = 60
	DefaultLogLevel  = "info"
	DefaultDSN       = "postgres://localhost:5432/postgres"
	DefaultDatabase  = "/var/lib/pgscout/samples.db"
	DefaultAWSRegion = "us-east-1"

	configEnvVar = "PGSCOUT_CONFIG"
)

type Config struct {
	// Collection
	Interval int    `mapstructure:"interval"`
	DSN      string `mapstructure:"dsn"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
	Verbose  bool   `mapstructure:"verbose"`

	// Local sample store
	Store    bool   `mapstructure:"store"`
	Database string `mapstructure:"database"`

	// Remote push
	PushURL string `mapstructure:"push_url"`

	// Request signing for managed Prometheus endpoints
	SigV4     bool   `mapstructure:"sigv4"`
	AWSRegion string `mapstructure:"aws_region"`
	Strict    bool   `mapstructure:"strict"`
}

// Load reads configuration from flags, an optional TOML file and defaults,
// in that order of precedence. The config file path is taken from the
// --config flag or the PGSCOUT_CONFIG environment variable.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("pgscout", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	configFile := fs.String("config", "", "Path to config file")
	fs.Int("interval", DefaultInterval, "Seconds between collection passes")
	fs.String("dsn", DefaultDSN, "PostgreSQL connection string")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.Bool("store", false, "Record samples to the local store")
	fs.String("database", DefaultDatabase, "Path to the local sample store")
	fs.String("push-url", "", "Prometheus-compatible endpoint to push samples to")
	fs.Bool("sigv4", false, "Sign push requests with AWS SigV4")
	fs.String("aws-region", "", "AWS region for request signing")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("dsn", DefaultDSN)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("database", DefaultDatabase)

	if *configFile == "" {
		*configFile = os.Getenv(configEnvVar)
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags set on the command line override file values
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, bindErr)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if !isValidLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Store && c.Database == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "store enabled but no database path configured")
	}

	return nil
}

// Region returns the configured AWS region, or the default when unset.
func (c *Config) Region() string {
	if c.AWSRegion == "" {
		return DefaultAWSRegion
	}

	return c.AWSRegion
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}
