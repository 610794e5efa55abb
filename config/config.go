package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, read from the environment with a
// .env file as fallback.
type Config struct {
	ListenAddr   string
	SmallBlind   int
	BigBlind     int
	StartingBank int
	Players      []string
	Debug        bool
}

// Load reads the configuration, applying defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":7777"),
		SmallBlind:   getEnvInt("SMALL_BLIND", 10),
		BigBlind:     getEnvInt("BIG_BLIND", 20),
		StartingBank: getEnvInt("STARTING_BANK", 5000),
		Players:      getEnvList("PLAYERS"),
		Debug:        getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

// getEnvList parses a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
