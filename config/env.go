package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch Environment(os.Getenv("ENV")) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
