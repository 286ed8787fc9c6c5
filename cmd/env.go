package cmd

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const appName = "shortener"

const (
	defaultAPIURL     = "http://localhost:3000"
	defaultCreatePath = "/api/new"
	defaultPhotoPath  = "/api/unplash"
)

// settings is the environment-derived configuration shared by all commands.
type settings struct {
	APIURL     string
	CreatePath string
	PhotoPath  string
	DBPath     string
	Production bool
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// loadEnvFile loads dir/.env if present. Variables already set win.
func loadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return godotenv.Load(path)
}

// loadSettings reads .env from the config directory and the working
// directory, then the process environment.
func loadSettings() settings {
	if dir, err := configDir(); err == nil {
		_ = loadEnvFile(dir)
	}
	_ = godotenv.Load()

	s := settings{
		APIURL:     getEnv("SHORTENER_API_URL", defaultAPIURL),
		CreatePath: getEnv("SHORTENER_CREATE_PATH", defaultCreatePath),
		PhotoPath:  getEnv("SHORTENER_PHOTO_PATH", defaultPhotoPath),
		DBPath:     os.Getenv("SHORTENER_DB_PATH"),
		Production: os.Getenv("MODE") == "production",
	}
	if apiURL != "" {
		s.APIURL = apiURL
	}
	if s.DBPath == "" {
		s.DBPath = defaultDBPath()
	}
	return s
}

func defaultDBPath() string {
	if dir, err := configDir(); err == nil {
		return filepath.Join(dir, "cookies.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".shortener.db")
	}
	return ".shortener.db"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
