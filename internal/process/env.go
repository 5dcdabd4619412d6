package process

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file into an environment overlay for spawned
// pipelines. Returns an empty map if path is empty.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return env, nil
}
