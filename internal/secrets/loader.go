// Package secrets loads secret values, such as API keys, from files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Load reads and trims the secret stored in the file at path. The name is
// only used to give error messages more context.
func Load(name, path string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "secret"
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, path, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, path)
	}

	return secret, nil
}
