package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Skufu/pedtox/internal/toxplan"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	GinMode     string   `mapstructure:"GIN_MODE"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	EnableDB    bool     `mapstructure:"ENABLE_DB"`
	CORSOrigins []string
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	LogFormat   string   `mapstructure:"LOG_FORMAT"`
	MinWeightKg float64  `mapstructure:"MIN_WEIGHT_KG"`
	MaxWeightKg float64  `mapstructure:"MAX_WEIGHT_KG"`
}

var keys = []string{
	"PORT",
	"GIN_MODE",
	"DATABASE_URL",
	"ENABLE_DB",
	"CORS_ORIGINS",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"MIN_WEIGHT_KG",
	"MAX_WEIGHT_KG",
}

// Load reads .env (if present) and the process environment. Flags, when
// given, override both; a flag named "port" binds to PORT.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ENABLE_DB", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("MIN_WEIGHT_KG", toxplan.DefaultMinWeightKg)
	v.SetDefault("MAX_WEIGHT_KG", toxplan.DefaultMaxWeightKg)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if flags != nil {
		for _, k := range keys {
			name := strings.ReplaceAll(strings.ToLower(k), "_", "-")
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(k, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if err := c.Limits().Validate(); err != nil {
		return fmt.Errorf("weight limits: %w", err)
	}
	return nil
}

func (c *Config) Limits() toxplan.Limits {
	return toxplan.Limits{MinWeightKg: c.MinWeightKg, MaxWeightKg: c.MaxWeightKg}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
