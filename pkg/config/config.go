package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client side.
	APIBaseURL string
	StateDir   string

	// Server side.
	RunAddress  string
	DatabaseURI string
	SecretKey   string

	LogLevel string
}

func Parse() *Config {
	// Missing .env is fine, env vars may come from the shell.
	_ = godotenv.Load()

	cfg := Config{
		// Defaults
		APIBaseURL: "http://localhost:8000/api/v1",
		StateDir:   defaultStateDir(),
		RunAddress: "localhost:8000",
		SecretKey:  "secret",
		LogLevel:   "debug",
	}
	cfg.updateFromFlags()
	cfg.updateFromEnv()
	return &cfg
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".booknook"
	}
	return filepath.Join(dir, "booknook")
}

func (cfg *Config) updateFromFlags() {
	flagRunAddress := flag.String("a", cfg.RunAddress, "Server address.")
	flagDatabaseURI := flag.String("d", cfg.DatabaseURI, "Postgres DSN.")
	flagAPIBaseURL := flag.String("b", cfg.APIBaseURL, "BookNook API base URL.")
	flagStateDir := flag.String("s", cfg.StateDir, "Directory for locally persisted client state.")

	flag.Parse()

	cfg.RunAddress = *flagRunAddress
	cfg.DatabaseURI = *flagDatabaseURI
	cfg.APIBaseURL = *flagAPIBaseURL
	cfg.StateDir = *flagStateDir
}

func (cfg *Config) updateFromEnv() {
	if addr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = addr
	}
	if db, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = db
	}
	if base, ok := os.LookupEnv("API_BASE_URL"); ok {
		cfg.APIBaseURL = base
	}
	if dir, ok := os.LookupEnv("STATE_DIR"); ok {
		cfg.StateDir = dir
	}
	if secret, ok := os.LookupEnv("SECRET_KEY"); ok {
		cfg.SecretKey = secret
	}
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = lvl
	}
}
