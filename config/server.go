package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultMaxPaths = 1000000

// Server holds the HTTP service settings.
type Server struct {
	Address string
	// KeyHash is the bcrypt hash of the API key. Empty disables authentication.
	KeyHash  string
	GinMode  string
	LogLevel slog.Level
	MaxPaths int
}

// LoadServer reads settings from the environment after loading the given
// .env files (".env" when none is given). Missing files are skipped and
// variables already set in the environment win.
func LoadServer(files ...string) (*Server, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	s := &Server{
		Address:  getenv("API_ADDRESS", ":8080"),
		KeyHash:  os.Getenv("API_KEY_HASH"),
		GinMode:  getenv("GIN_MODE", "release"),
		MaxPaths: DefaultMaxPaths,
	}
	if err := s.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if v := os.Getenv("MAX_PATHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_PATHS: want a positive integer, got %q", v)
		}
		s.MaxPaths = n
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
