package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	LISTEN_ADDR    string
	API_BASE_URL   string
	LOGIN_PATH     string
	SESSION_DB     string
	DATABASE_URL   string
	SESSION_SECRET string
	STRIPE_KEY     string
	STRIPE_URL     string
	KAFKA_ADDRESS  string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		LISTEN_ADDR:    getenv("LISTEN_ADDR", ":8080"),
		API_BASE_URL:   must("API_BASE_URL"),
		LOGIN_PATH:     getenv("LOGIN_PATH", "/rest-auth/login/"),
		SESSION_DB:     getenv("SESSION_DB", "storefront.db"),
		DATABASE_URL:   os.Getenv("DATABASE_URL"),
		SESSION_SECRET: must("SESSION_SECRET"),
		STRIPE_KEY:     must("STRIPE_KEY"),
		STRIPE_URL:     getenv("STRIPE_URL", "https://api.stripe.com"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:      getenv("LOG_LEVEL", "info"),
	}

	return config, nil
}

func (c *Config) KafkaBrokers() []string {
	if c.KAFKA_ADDRESS == "" {
		return nil
	}
	parts := strings.Split(c.KAFKA_ADDRESS, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env %s", key)
	}
	return v
}
