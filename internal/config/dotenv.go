package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads environment variables from the given .env file.
// A missing file is an error; use LoadDefaultDotenv for opportunistic loading.
func LoadDotenv(path string) error {
	return godotenv.Load(path)
}

// LoadDefaultDotenv loads ".env" from the current directory if it exists.
// Existing environment variables are never overridden.
func LoadDefaultDotenv() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	_ = godotenv.Load(".env")
}
