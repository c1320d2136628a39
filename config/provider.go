// Package config supplies named connection strings and application settings
// to the data-access layer. Every lookup of a missing or empty key fails with
// apperrors.ErrConfigurationMissing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/metailurini/sqlcontext/apperrors"
)

// Provider is a key-value lookup for connection strings and settings.
type Provider interface {
	ConnectionString(name string) (string, error)
	Setting(key string) (string, error)
}

// MapProvider serves values from in-memory maps.
type MapProvider struct {
	ConnectionStrings map[string]string
	Settings          map[string]string
}

func (m MapProvider) ConnectionString(name string) (string, error) {
	return lookup(m.ConnectionStrings, "connection string", name)
}

func (m MapProvider) Setting(key string) (string, error) {
	return lookup(m.Settings, "setting", key)
}

func lookup(values map[string]string, what, key string) (string, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return "", missing(what, key)
	}
	return v, nil
}

func missing(what, key string) error {
	return fmt.Errorf("%s %q: %w", what, key, apperrors.ErrConfigurationMissing)
}

// EnvProvider reads the process environment. Connection string "main" is read
// from <Prefix>_CONN_MAIN and setting "db.user" from <Prefix>_DB_USER.
type EnvProvider struct {
	Prefix string
	// Lookup replaces os.LookupEnv; tests set it.
	Lookup func(string) (string, bool)
}

func (e EnvProvider) ConnectionString(name string) (string, error) {
	return e.get("connection string", name, e.envName("CONN", name))
}

func (e EnvProvider) Setting(key string) (string, error) {
	return e.get("setting", key, e.envName("", key))
}

func (e EnvProvider) get(what, key, env string) (string, error) {
	lookupEnv := e.Lookup
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	v, ok := lookupEnv(env)
	if !ok || v == "" {
		return "", missing(what, key)
	}
	return v, nil
}

func (e EnvProvider) envName(section, key string) string {
	parts := make([]string, 0, 3)
	if e.Prefix != "" {
		parts = append(parts, e.Prefix)
	}
	if section != "" {
		parts = append(parts, section)
	}
	parts = append(parts, key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.Join(parts, "_"))
}

// Chain asks each provider in order and returns the first hit. A provider
// error other than ErrConfigurationMissing stops the search.
type Chain []Provider

func (c Chain) ConnectionString(name string) (string, error) {
	return c.first("connection string", name, Provider.ConnectionString)
}

func (c Chain) Setting(key string) (string, error) {
	return c.first("setting", key, Provider.Setting)
}

func (c Chain) first(what, key string, get func(Provider, string) (string, error)) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		v, err := get(p, key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, apperrors.ErrConfigurationMissing) {
			return "", err
		}
	}
	return "", missing(what, key)
}
