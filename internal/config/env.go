package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnvOptional loads environment variables from a .env file if it exists.
// Variables that are already set are not overwritten.
func LoadEnvOptional(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
