package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// MaxPageSize is the largest maxResults value the playlists endpoint accepts.
const MaxPageSize = 50

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	Environment     string `mapstructure:"environment"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type YouTubeConfig struct {
	APIKey    string `mapstructure:"api_key"`
	ChannelID string `mapstructure:"channel_id"`
	PageSize  int    `mapstructure:"page_size"`
	Endpoint  string `mapstructure:"endpoint"`
	Timeout   string `mapstructure:"timeout"`
}

type MatcherConfig struct {
	MaxSuggestions int     `mapstructure:"max_suggestions"`
	Cutoff         float64 `mapstructure:"cutoff"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	Matcher MatcherConfig `mapstructure:"matcher"`
}

// Load reads config.yaml (if present) and the environment. The API key and
// channel id have no defaults, so Load fails when either is missing.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.channel_id", "")
	v.SetDefault("youtube.page_size", 5)
	v.SetDefault("youtube.endpoint", "")
	v.SetDefault("youtube.timeout", "10s")
	v.SetDefault("matcher.max_suggestions", 3)
	v.SetDefault("matcher.cutoff", 0.6)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// legacy deployments export the bare names
	if err := v.BindEnv("youtube.api_key", "YOUTUBE_API_KEY", "MY_SECRET_TOKEN", "API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("youtube.channel_id", "YOUTUBE_CHANNEL_ID", "CHANNEL_ID"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// UpstreamTimeout returns youtube.timeout as a duration. Validate guarantees it parses.
func (c *Config) UpstreamTimeout() time.Duration {
	d, _ := time.ParseDuration(c.YouTube.Timeout)
	return d
}

// ShutdownTimeout returns server.shutdown_timeout as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
					validation.Field(&sc.ShutdownTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.YouTube,
			validation.Required,
			validation.By(func(value interface{}) error {
				yc, ok := value.(YouTubeConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a YouTubeConfig")
				}
				return validation.ValidateStruct(&yc,
					validation.Field(&yc.APIKey, validation.Required),
					validation.Field(&yc.ChannelID, validation.Required),
					validation.Field(&yc.PageSize,
						validation.Required,
						validation.Min(1),
						validation.Max(MaxPageSize),
					),
					validation.Field(&yc.Endpoint, is.URL),
					validation.Field(&yc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Matcher,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MatcherConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MatcherConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.MaxSuggestions, validation.Required, validation.Min(1)),
					validation.Field(&mc.Cutoff, validation.Min(0.0), validation.Max(1.0)),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}
