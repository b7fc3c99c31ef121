package config

import (
	"bufio"
	"os"
	"strings"
)

// LoadEnvFile parses a key-value file where each line has the form
//
//	key = "value"
//
// Quotes around the value are optional, `#` starts a comment, blank lines
// are skipped and the last assignment of a key wins.
func LoadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewConfigError("open env file %s: %v", path, err)
	}
	defer file.Close()

	entries := make(map[string]string)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, NewConfigError("%s:%d: expected key = value", path, lineNo)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, NewConfigError("%s:%d: empty key", path, lineNo)
		}

		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		entries[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, NewConfigError("read env file %s: %v", path, err)
	}

	return entries, nil
}

// CredentialsFromEnvFile reads the named entry from an env file and parses it
// as a credential string. A missing key is a configuration error.
func CredentialsFromEnvFile(path, key string) (Credentials, error) {
	entries, err := LoadEnvFile(path)
	if err != nil {
		return Credentials{}, err
	}

	raw, ok := entries[key]
	if !ok {
		return Credentials{}, NewConfigError("env file %s has no entry %q", path, key)
	}

	return ParseCredentials(raw)
}
