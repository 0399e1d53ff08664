package config

import (
	"errors"
	"strings"
)

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError lists mandatory settings that were not provided.
type ConfigurationError struct {
	Keys []string
}

func (e *ConfigurationError) Error() string {
	return "missing mandatory configuration: " + strings.Join(e.Keys, ", ")
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
