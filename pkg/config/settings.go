package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Settings struct {
	UserAgent      string
	RequestTimeout int // seconds
	RetryAttempts  int
	MaxConcurrent  int
	OutputDir      string
	HistoryDB      string
	Verbose        bool
}

// Load reads settings from the environment, with an optional .env file.
// A missing .env is not an error.
func Load() Settings {
	_ = godotenv.Load()

	return Settings{
		UserAgent:      getenv("IPOFETCH_USER_AGENT", "IPOFetch/1.0.0 (Research Tool; Contact: research@example.com)"),
		RequestTimeout: getenvInt("IPOFETCH_REQUEST_TIMEOUT", 30),
		RetryAttempts:  getenvInt("IPOFETCH_RETRY_ATTEMPTS", 3),
		MaxConcurrent:  getenvInt("IPOFETCH_MAX_CONCURRENT", 3),
		OutputDir:      getenv("IPOFETCH_OUTPUT_DIRECTORY", "./prospectus/"),
		HistoryDB:      getenv("IPOFETCH_HISTORY_DB", "ipofetch.db"),
		Verbose:        getenvBool("IPOFETCH_VERBOSE", false),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
