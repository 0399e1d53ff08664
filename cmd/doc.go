// Package cmd implements the riza-mcp command-line interface. Each file
// registers a single sub-command (serve, list-tools, tool, exec, create-tool,
// run, list-actions, action). Configuration loading and service
// initialisation shared between commands live in shared.go.
package cmd
