package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// exchangeOrder is the order exchanges are queried in.
var exchangeOrder = []string{"nyse", "nasdaq", "amex"}

type ScreenerConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type ScheduleConfig struct {
	Cron     string `mapstructure:"cron"`
	Timezone string `mapstructure:"timezone"`
}

type Config struct {
	StorePath     string          `mapstructure:"store_path"`
	HistoryDB     string          `mapstructure:"history_db"`
	Screener      ScreenerConfig  `mapstructure:"screener"`
	ExchangeFlags map[string]bool `mapstructure:"exchanges"`
	Refresh       struct {
		RetainMissing bool `mapstructure:"retain_missing"`
	} `mapstructure:"refresh"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store_path", "data/stocks.json")
	v.SetDefault("history_db", "")
	v.SetDefault("screener.url", DefaultScreenerURL)
	v.SetDefault("screener.timeout", 30*time.Second)
	v.SetDefault("screener.user_agent", DefaultUserAgent)
	for _, exch := range exchangeOrder {
		v.SetDefault("exchanges."+exch, true)
	}
	v.SetDefault("refresh.retain_missing", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("schedule.cron", "30 17 * * 1-5")
	v.SetDefault("schedule.timezone", "America/New_York")
}

// newViper returns a viper instance with defaults, env overrides
// (STOCKDATA_STORE_PATH, STOCKDATA_SCREENER_TIMEOUT, ...) and the optional
// config file. An empty configFile searches for stockdata.yaml in the working
// directory and tolerates its absence.
func newViper(configFile string) (*viper.Viper, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOCKDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("stockdata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// decodeConfig unmarshals and validates the settings held by v.
func decodeConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadConfig(configFile string) (*Config, error) {
	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}
	return decodeConfig(v)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	if c.Screener.Timeout <= 0 {
		return fmt.Errorf("screener.timeout must be positive, got %s", c.Screener.Timeout)
	}
	if len(c.Exchanges()) == 0 {
		return fmt.Errorf("at least one exchange must be enabled")
	}
	return nil
}

// Exchanges returns the enabled exchanges in query order.
func (c *Config) Exchanges() []string {
	var out []string
	for _, exch := range exchangeOrder {
		if c.ExchangeFlags[exch] {
			out = append(out, exch)
		}
	}
	return out
}
