package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Advisory providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

const envPrefix = "AETHERIS"

// Config is the full service configuration.
type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Advisory AdvisoryConfig `mapstructure:"advisory"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Signals  SignalsConfig  `mapstructure:"signals"`
	Sampler  SamplerConfig  `mapstructure:"sampler"`
	EventLog EventLogConfig `mapstructure:"eventlog"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type AdvisoryConfig struct {
	Provider    string        `mapstructure:"provider"` // gemini | ollama | none
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`      // critical-state advisory
	PlanTimeout time.Duration `mapstructure:"plan_timeout"` // 72h plan and voice intent
}

type WeatherConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Lat      float64       `mapstructure:"lat"`
	Lon      float64       `mapstructure:"lon"`
	Units    string        `mapstructure:"units"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SignalsConfig struct {
	CPUSampleInterval time.Duration `mapstructure:"cpu_sample_interval"`
}

type SamplerConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Tick    time.Duration `mapstructure:"tick"`
}

type EventLogConfig struct {
	QueueSize    int           `mapstructure:"queue_size"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type MQTTConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Topic          string        `mapstructure:"topic"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// legacyEnv maps config keys to the environment names used by the
// original deployment's .env files.
var legacyEnv = map[string]string{
	"advisory.api_key": "GEMINI_API_KEY",
	"weather.api_key":  "OPENWEATHER_API_KEY",
	"weather.lat":      "BUILDING_LAT",
	"weather.lon":      "BUILDING_LON",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "aetheris.db")

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("advisory.provider", ProviderGemini)
	v.SetDefault("advisory.api_key", "")
	v.SetDefault("advisory.model", "gemini-2.0-flash")
	v.SetDefault("advisory.base_url", "")
	v.SetDefault("advisory.timeout", 5*time.Second)
	v.SetDefault("advisory.plan_timeout", 60*time.Second)

	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.lat", 37.7749)
	v.SetDefault("weather.lon", -122.4194)
	v.SetDefault("weather.units", "imperial")
	v.SetDefault("weather.cache_ttl", 10*time.Minute)
	v.SetDefault("weather.timeout", 10*time.Second)

	v.SetDefault("signals.cpu_sample_interval", time.Second)

	v.SetDefault("sampler.enabled", true)
	v.SetDefault("sampler.tick", 30*time.Second)

	v.SetDefault("eventlog.queue_size", 256)
	v.SetDefault("eventlog.write_timeout", 3*time.Second)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "aetheris")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic", "building/actuators/smart-glass")
	v.SetDefault("mqtt.publish_timeout", 2*time.Second)
}

// Load reads .env, then the optional config file, then environment
// variables. An explicit file path that cannot be read is an error; a
// missing configs/config.yml is not.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		// Prefixed variables win over the legacy names.
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Advisory.Provider = strings.ToLower(strings.TrimSpace(cfg.Advisory.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that would otherwise surface as runtime hangs.
func (c *Config) Validate() error {
	switch c.Advisory.Provider {
	case ProviderGemini, ProviderOllama, ProviderNone:
	default:
		return fmt.Errorf("unknown advisory provider %q", c.Advisory.Provider)
	}
	durations := map[string]time.Duration{
		"advisory.timeout":            c.Advisory.Timeout,
		"advisory.plan_timeout":       c.Advisory.PlanTimeout,
		"weather.timeout":             c.Weather.Timeout,
		"signals.cpu_sample_interval": c.Signals.CPUSampleInterval,
		"sampler.tick":                c.Sampler.Tick,
		"eventlog.write_timeout":      c.EventLog.WriteTimeout,
		"mqtt.publish_timeout":        c.MQTT.PublishTimeout,
		"auth.token_ttl":              c.Auth.TokenTTL,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}
	if c.EventLog.QueueSize <= 0 {
		return fmt.Errorf("eventlog.queue_size must be positive, got %d", c.EventLog.QueueSize)
	}
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required when auth is enabled")
	}
	return nil
}
