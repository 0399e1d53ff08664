package tool

import (
	"fmt"

	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/viant/mcp-protocol/schema"
)

// Descriptor is the client-visible projection of a registered tool.
type Descriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema schema.ToolInputSchema `json:"inputSchema"`
}

// NewDescriptor projects a remote tool handle. A schema without a type is
// treated as an object schema.
func NewDescriptor(handle *riza.Tool) (Descriptor, error) {
	if handle == nil {
		return Descriptor{}, fmt.Errorf("tool handle was nil")
	}
	inputSchema, err := InputSchema(handle.InputSchema)
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid input schema for tool %q: %w", handle.Name, err)
	}
	return Descriptor{Name: handle.Name, Description: handle.Description, InputSchema: inputSchema}, nil
}

// InputSchema converts a raw JSON schema object into an MCP input schema.
func InputSchema(raw map[string]interface{}) (schema.ToolInputSchema, error) {
	normalized := make(map[string]interface{}, len(raw)+1)
	for k, v := range raw {
		normalized[k] = v
	}
	if _, ok := normalized["type"]; !ok {
		normalized["type"] = "object"
	}
	var ret schema.ToolInputSchema
	if err := conv.Convert(normalized, &ret); err != nil {
		return ret, err
	}
	return ret, nil
}

// Metadata returns the MCP tool definition.
func (d Descriptor) Metadata() schema.Tool {
	description := d.Description
	return schema.Tool{
		Name:        d.Name,
		Description: &description,
		InputSchema: d.InputSchema,
	}
}
