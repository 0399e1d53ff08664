// Package conversion translates MCP JSON Schemas into Go reflect.Types.
// Generated struct types describe remote tool inputs to the workflow engine
// so that workflow state can be decoded into them before a tool is invoked.
package conversion
