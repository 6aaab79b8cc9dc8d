package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port       string `mapstructure:"PORT"`
	SecretKey  string `mapstructure:"SECRET_KEY"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	RedisURL   string `mapstructure:"REDIS_URL"`
	ViewsDir   string `mapstructure:"VIEWS_DIR"`
}

// LoadConfig reads configuration from a .env file (if present), an optional
// config.yml, and the environment, in increasing order of precedence.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment", "err", err)
	}

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("error reading config file", "err", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SECRET_KEY", "insecure-dev-key-change-me")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "inkwell")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("VIEWS_DIR", "./views")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		slog.Error("unable to decode config", "err", err)
	}

	return &config
}
