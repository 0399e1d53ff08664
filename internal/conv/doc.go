// Package conv provides small helpers to convert between arbitrary Go values.
// Convert performs a best-effort JSON round-trip which is sufficient for
// coercing tool arguments into typed inputs and remote tool handles into MCP
// schema types.
package conv
