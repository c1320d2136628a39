package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileProvider serves values loaded from a YAML document:
//
//	connectionStrings:
//	  main: postgres://app@db.internal/app
//	settings:
//	  db.user: app
//	  db.password: secret
type FileProvider struct {
	values MapProvider
}

type fileDocument struct {
	ConnectionStrings map[string]string `yaml:"connectionStrings"`
	Settings          map[string]string `yaml:"settings"`
}

// LoadFile reads and parses path.
func LoadFile(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return p, nil
}

// Parse builds a FileProvider from YAML bytes.
func Parse(raw []byte) (*FileProvider, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &FileProvider{values: MapProvider{
		ConnectionStrings: doc.ConnectionStrings,
		Settings:          doc.Settings,
	}}, nil
}

func (f *FileProvider) ConnectionString(name string) (string, error) {
	return f.values.ConnectionString(name)
}

func (f *FileProvider) Setting(key string) (string, error) {
	return f.values.Setting(key)
}
