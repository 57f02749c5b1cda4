// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files and from a dotenv file. Each file in the directory
// represents one secret: the filename is the key name and the file contents
// (trimmed) are the value. Dotenv variables are mapped onto the same key
// names, so ANTHROPIC_API_KEY in .env becomes anthropic-api-key.
//
// Supported keys: anthropic-api-key, gemini-api-key, openai-api-key,
// semantic-scholar-api-key, pubmed-api-key, openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotenv reads a dotenv file and returns its variables under secret key
// names. A missing file yields an empty map.
func LoadDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	secrets := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		secrets[KeyName(k)] = v
	}
	return secrets, nil
}

// LoadAll merges the dotenv file and the secrets directory. Files in the
// directory take precedence over dotenv entries.
func LoadAll(dir, dotenvPath string) (map[string]string, error) {
	merged, err := LoadDotenv(dotenvPath)
	if err != nil {
		return nil, err
	}
	fromDir, err := Load(dir)
	if err != nil {
		return nil, err
	}
	for k, v := range fromDir {
		merged[k] = v
	}
	return merged, nil
}

// Lookup returns the secret for key, falling back to the process
// environment variable of the same name (anthropic-api-key -> ANTHROPIC_API_KEY).
func Lookup(secrets map[string]string, key string) string {
	if v, ok := secrets[key]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvName(key)))
}

// KeyName converts an environment variable name to a secret key name.
func KeyName(env string) string {
	return strings.ToLower(strings.ReplaceAll(env, "_", "-"))
}

// EnvName converts a secret key name to an environment variable name.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
