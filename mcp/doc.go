// Package mcp implements the tool registry server. Its central Service type
// loads configuration, creates remote tools through the Riza client, keeps
// them in an injected registry, answers tool listing and invocation requests,
// and exposes the same tools to a Fluxor workflow engine.
package mcp
