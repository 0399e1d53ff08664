// Package config defines the YAML/JSON configuration model that is passed to
// the MCP service on startup, together with helpers that load it, overlay
// environment variables, apply defaults and validate mandatory settings.
package config
