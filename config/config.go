// Package config reads session factory definitions from YAML:
//
//	session_factories:
//	  - name: NSP
//	    context: http
//	    validation_mode: auto
//	    properties:
//	      http.base_url: https://gateway.example.com/rfc
//	      http.user: RFC_USER
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bapi-mapper/internal/validation"
)

// Validation modes.
const (
	ValidationAuto     = "auto"
	ValidationCallback = "callback"
	ValidationNone     = "none"
)

// DefaultContext is the execution context used when none is configured.
const DefaultContext = "memory"

var ErrSessionFactoryNotFound = errors.New("session factory not found")

// File is the root of a configuration file.
type File struct {
	SessionFactories []SessionFactory `yaml:"session_factories" validate:"unique=Name,dive"`
}

// SessionFactory configures one session factory.
type SessionFactory struct {
	Name           string            `yaml:"name" validate:"required"`
	Context        string            `yaml:"context" validate:"required"`
	ValidationMode string            `yaml:"validation_mode" validate:"oneof=auto callback none"`
	Properties     map[string]string `yaml:"properties,omitempty"`
}

// LoadFile loads, parses and validates a configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse parses and validates YAML data. Omitted contexts and validation
// modes get their defaults.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

func applyDefaults(f *File) {
	for i := range f.SessionFactories {
		f.SessionFactories[i].ApplyDefaults()
	}
}

// ApplyDefaults fills in the context and validation mode if they are empty.
func (sf *SessionFactory) ApplyDefaults() {
	if sf.Context == "" {
		sf.Context = DefaultContext
	}

	if sf.ValidationMode == "" {
		sf.ValidationMode = ValidationAuto
	}
}

// Validate checks the whole file.
func (f *File) Validate() error {
	if err := validation.New(validation.YAMLName).Struct(context.Background(), f); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Validate checks a single session factory definition.
func (sf *SessionFactory) Validate() error {
	if err := validation.New(validation.YAMLName).Struct(context.Background(), sf); err != nil {
		return fmt.Errorf("invalid session factory %q: %w", sf.Name, err)
	}

	return nil
}

// SessionFactory returns the definition called name.
func (f *File) SessionFactory(name string) (SessionFactory, error) {
	for _, sf := range f.SessionFactories {
		if sf.Name == name {
			return sf, nil
		}
	}

	return SessionFactory{}, fmt.Errorf("%w: %q", ErrSessionFactoryNotFound, name)
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes f to path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
