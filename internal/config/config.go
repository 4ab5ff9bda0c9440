// README: Config loader with env defaults for HTTP, model artifact, and optional backing services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const DefaultModelPath = "model.joblib"

type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string `validate:"required_with=Endpoint"`
	SecretKey string `validate:"required_with=Endpoint"`
	UseSSL    bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string `validate:"required_with=Brokers"`
}

type Config struct {
	Env      string `validate:"oneof=development production test"`
	LogLevel string
	HTTP     struct {
		Addr string `validate:"required"`
	}
	Model struct {
		Path string `validate:"required"`
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Kafka KafkaConfig
	Maps  struct {
		APIKey string
	}
	S3 ObjectStoreConfig
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.Env = envOrDefault("FARE_ENV", "development")
	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.HTTP.Addr = envOrDefault("FARE_HTTP_ADDR", ":8080")
	cfg.Model.Path = envOrDefault("MODEL_PATH", DefaultModelPath)
	cfg.DB.DSN = os.Getenv("FARE_DB_DSN")
	cfg.Redis.Addr = os.Getenv("FARE_REDIS_ADDR")
	cfg.Kafka.Brokers = envList("FARE_KAFKA_BROKERS")
	cfg.Kafka.Topic = envOrDefault("FARE_KAFKA_TOPIC", "fare.estimated")
	cfg.Maps.APIKey = os.Getenv("FARE_MAPS_API_KEY")
	cfg.S3.Endpoint = os.Getenv("FARE_S3_ENDPOINT")
	cfg.S3.AccessKey = os.Getenv("FARE_S3_ACCESS_KEY")
	cfg.S3.SecretKey = os.Getenv("FARE_S3_SECRET_KEY")
	cfg.S3.UseSSL = envOrDefaultBool("FARE_S3_USE_SSL", false)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
