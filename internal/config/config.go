package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	AIURL          string        `mapstructure:"AI_URL"`
	AIModel        string        `mapstructure:"AI_MODEL"`
	AIAPIKey       string        `mapstructure:"AI_API_KEY"`
	KBURL          string        `mapstructure:"KB_URL"`
	KafkaBrokers   string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic     string        `mapstructure:"KAFKA_TOPIC"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("KAFKA_TOPIC", "complaint-events")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BrokerList splits KAFKA_BROKERS into addresses; empty when event publishing is disabled.
func (c Config) BrokerList() []string {
	raw := strings.TrimSpace(c.KafkaBrokers)
	if raw == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}
