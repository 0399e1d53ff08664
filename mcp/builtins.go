package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/riza-io/riza-mcp/mcp/matcher"
	"github.com/riza-io/riza-mcp/mcp/tool"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/viant/mcp-protocol/schema"
)

// Built-in tool names.
const (
	CreateToolName  = "create_tool"
	FetchToolName   = "fetch_tool"
	EditToolName    = "edit_tool"
	ExecuteCodeName = "execute_code"
	ListToolsName   = "list_tools"
	UseToolName     = "use_tool"
	SaveAgentName   = "save_agent"
	GetWeatherName  = "get_weather"
)

// BuiltinNames lists built-in tools in the order they are listed.
var BuiltinNames = []string{
	CreateToolName, FetchToolName, EditToolName, ExecuteCodeName,
	ListToolsName, UseToolName, SaveAgentName, GetWeatherName,
}

type builtin struct {
	descriptor tool.Descriptor
	handle     func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error)
	// creates marks tools that disappear once tool creation is disabled.
	creates bool
}

type (
	createToolInput struct {
		Name        string                 `json:"name"`
		Description string                 `json:"description"`
		Code        string                 `json:"code"`
		InputSchema map[string]interface{} `json:"input_schema"`
		Language    string                 `json:"language"`
	}

	fetchToolInput struct {
		ToolName string `json:"tool_name"`
	}

	editToolInput struct {
		ToolName    string                 `json:"tool_name"`
		Name        *string                `json:"name"`
		Description *string                `json:"description"`
		Code        *string                `json:"code"`
		InputSchema map[string]interface{} `json:"input_schema"`
		Language    *string                `json:"language"`
	}

	executeCodeInput struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}

	useToolInput struct {
		Name  string                 `json:"name"`
		Input map[string]interface{} `json:"input"`
	}

	saveAgentInput struct {
		Name string `json:"name"`
	}

	weatherInput struct {
		City     string `json:"city"`
		Forecast bool   `json:"forecast"`
	}
)

func (s *Service) initBuiltins() {
	all := []*builtin{
		s.createToolBuiltin(),
		s.fetchToolBuiltin(),
		s.editToolBuiltin(),
		s.executeCodeBuiltin(),
		s.listToolsBuiltin(),
		s.useToolBuiltin(),
		s.saveAgentBuiltin(),
		s.weatherBuiltin(),
	}
	for _, candidate := range all {
		if matcher.MatchAny(s.config.Builtins, candidate.descriptor.Name) {
			s.builtins = append(s.builtins, candidate)
		}
	}
}

// builtin returns an enabled built-in tool.
func (s *Service) builtin(name string) (*builtin, bool) {
	for _, candidate := range s.builtins {
		if candidate.descriptor.Name != name {
			continue
		}
		if candidate.creates && s.ToolCreationDisabled() {
			return nil, false
		}
		return candidate, true
	}
	return nil, false
}

func (s *Service) builtinDescriptors() []tool.Descriptor {
	ret := make([]tool.Descriptor, 0, len(s.builtins))
	for _, candidate := range s.builtins {
		if candidate.creates && s.ToolCreationDisabled() {
			continue
		}
		ret = append(ret, candidate.descriptor)
	}
	return ret
}

// isBuiltinName reports whether name is reserved by a built-in tool.
func isBuiltinName(name string) bool {
	for _, candidate := range BuiltinNames {
		if candidate == name {
			return true
		}
	}
	return false
}

func (s *Service) createToolBuiltin() *builtin {
	return &builtin{
		creates: true,
		descriptor: tool.Descriptor{
			Name:        CreateToolName,
			Description: "Create a new tool. The tool code runs remotely; once created the tool can be called like any other tool.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"name":         {"type": "string", "description": "The name of the tool. This is what you will use to call the tool."},
				"description":  {"type": "string", "description": "A description that helps pick the appropriate tool in the future."},
				"code":         {"type": "string", "description": "The tool code: a function named `execute` that takes one argument called `input` matching input_schema."},
				"input_schema": {"type": "object", "description": "The input schema for the tool as a JSON Schema object."},
				"language":     languageProperty(),
			}, "name", "code"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &createToolInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", CreateToolName, err)
			}
			language, err := riza.ParseLanguage(input.Language)
			if err != nil {
				return nil, err
			}
			created, err := s.CreateTool(ctx, &riza.CreateToolParams{
				Name:        input.Name,
				Description: input.Description,
				Code:        input.Code,
				InputSchema: input.InputSchema,
				Language:    language,
			})
			if err != nil {
				return nil, err
			}
			return textResult("Created tool: " + created.Name), nil
		},
	}
}

func (s *Service) fetchToolBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        FetchToolName,
			Description: "Fetch the definition of a created tool, including its code.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"tool_name": {"type": "string", "description": "The name of the tool to fetch."},
			}, "tool_name"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &fetchToolInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", FetchToolName, err)
			}
			entry, ok := s.registry.Lookup(input.ToolName)
			if !ok {
				return nil, &UnknownToolError{Name: input.ToolName}
			}
			return jsonResult(entry.Handle)
		},
	}
}

func (s *Service) editToolBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        EditToolName,
			Description: "Edit an existing tool. Only supplied fields are changed.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"tool_name":    {"type": "string", "description": "The name of the tool to edit."},
				"description":  {"type": "string", "description": "The new description."},
				"code":         {"type": "string", "description": "The new code."},
				"input_schema": {"type": "object", "description": "The new input schema."},
				"language":     languageProperty(),
			}, "tool_name"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &editToolInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", EditToolName, err)
			}
			params := &riza.UpdateToolParams{
				Name:        input.Name,
				Description: input.Description,
				Code:        input.Code,
				InputSchema: input.InputSchema,
			}
			if input.Language != nil {
				language, err := riza.ParseLanguage(*input.Language)
				if err != nil {
					return nil, err
				}
				params.Language = &language
			}
			updated, err := s.EditTool(ctx, input.ToolName, params)
			if err != nil {
				return nil, err
			}
			data, err := json.Marshal(updated)
			if err != nil {
				return nil, err
			}
			return textResult("Updated tool: " + string(data)), nil
		},
	}
}

func (s *Service) executeCodeBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        ExecuteCodeName,
			Description: "Execute code remotely and return its standard output. Useful for testing code before creating a tool.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"code":     {"type": "string", "description": "The code to execute."},
				"language": languageProperty(),
			}, "code"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &executeCodeInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", ExecuteCodeName, err)
			}
			language, err := riza.ParseLanguage(input.Language)
			if err != nil {
				return nil, err
			}
			return s.ExecuteCode(ctx, input.Code, language)
		},
	}
}

func (s *Service) listToolsBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        ListToolsName,
			Description: "List every available tool with its description and input schema.",
			InputSchema: objectSchema(nil),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			return jsonResult(s.ListTools())
		},
	}
}

func (s *Service) useToolBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        UseToolName,
			Description: "Invoke a created tool by name. Useful for clients that do not refresh their tool list.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"name":  {"type": "string", "description": "The name of the created tool."},
				"input": {"type": "object", "description": "The tool input matching its input schema."},
			}, "name"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &useToolInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", UseToolName, err)
			}
			entry, ok := s.registry.Lookup(input.Name)
			if !ok {
				return nil, &UnknownToolError{Name: input.Name}
			}
			return s.executeRemote(ctx, entry.Handle, input.Input)
		},
	}
}

func (s *Service) saveAgentBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        SaveAgentName,
			Description: "Save the current set of created tools as an agent that can be loaded on a later start.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"name": {"type": "string", "description": "The name of the agent. Letters, digits, '_' and '-' only."},
			}, "name"),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &saveAgentInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", SaveAgentName, err)
			}
			if _, err := s.SaveAgent(ctx, input.Name); err != nil {
				return nil, err
			}
			return textResult("Saved agent: " + input.Name), nil
		},
	}
}

func (s *Service) weatherBuiltin() *builtin {
	return &builtin{
		descriptor: tool.Descriptor{
			Name:        GetWeatherName,
			Description: "Get current weather or the 5 day forecast for a city.",
			InputSchema: objectSchema(map[string]map[string]interface{}{
				"city":     {"type": "string", "description": "City name, defaults to " + s.config.Weather.DefaultCity + "."},
				"forecast": {"type": "boolean", "description": "Return the forecast instead of current conditions."},
			}),
		},
		handle: func(ctx context.Context, args map[string]interface{}) (*schema.CallToolResult, error) {
			input := &weatherInput{}
			if err := conv.Convert(args, input); err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", GetWeatherName, err)
			}
			lookup := s.weather.Current
			if input.Forecast {
				lookup = s.weather.Forecast
			}
			report, err := lookup(ctx, input.City)
			if err != nil {
				return nil, err
			}
			return jsonResult(report)
		},
	}
}

func objectSchema(properties map[string]map[string]interface{}, required ...string) schema.ToolInputSchema {
	if properties == nil {
		properties = map[string]map[string]interface{}{}
	}
	return schema.ToolInputSchema{Type: "object", Properties: properties, Required: required}
}

func languageProperty() map[string]interface{} {
	names := make([]string, len(riza.Languages))
	enum := make([]interface{}, len(riza.Languages))
	for i, lang := range riza.Languages {
		names[i] = string(lang)
		enum[i] = string(lang)
	}
	return map[string]interface{}{
		"type":        "string",
		"enum":        enum,
		"description": "One of " + strings.Join(names, ", ") + "; defaults to " + string(riza.DefaultLanguage) + ".",
	}
}
