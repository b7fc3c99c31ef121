package config

import (
	"fmt"
	"strconv"
	"strings"
)

// credentialKeys are the fields a credential string must supply.
var credentialKeys = []string{"user", "password", "host", "port"}

// ConfigError reports a missing or malformed credential source.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

// NewConfigError creates a new configuration error.
func NewConfigError(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Credentials holds the connection parameters parsed from a credential string.
type Credentials struct {
	User     string
	Password string
	Host     string
	Port     int
}

// ParseCredentials parses a comma-separated credential string of the form
//
//	user=...,password=...,host=...,port=...
//
// All four keys must be present exactly once; anything else is rejected.
func ParseCredentials(s string) (Credentials, error) {
	var creds Credentials

	seen := make(map[string]bool, len(credentialKeys))
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, found := strings.Cut(pair, "=")
		if !found {
			return Credentials{}, NewConfigError("malformed credential pair %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if seen[key] {
			return Credentials{}, NewConfigError("duplicate credential key %q", key)
		}
		seen[key] = true

		switch key {
		case "user":
			creds.User = value
		case "password":
			creds.Password = value
		case "host":
			creds.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return Credentials{}, NewConfigError("invalid port %q: %v", value, err)
			}
			creds.Port = port
		default:
			return Credentials{}, NewConfigError("unknown credential key %q", key)
		}
	}

	for _, key := range credentialKeys {
		if !seen[key] {
			return Credentials{}, NewConfigError("credential string is missing %q", key)
		}
	}

	return creds, nil
}

// DSN formats the credentials as a go-sql-driver/mysql data source name.
// The database may be empty to connect without selecting one.
func (c Credentials) DSN(database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, database)
}
