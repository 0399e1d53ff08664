package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/riza-io/riza-mcp/mcp/agent"
	mcpctx "github.com/riza-io/riza-mcp/mcp/context"
	"github.com/riza-io/riza-mcp/mcp/registry"
	"github.com/riza-io/riza-mcp/mcp/tool"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/viant/mcp-protocol/schema"
)

// ListTools returns the enabled built-in tools followed by registered remote
// tools in registration order.
func (s *Service) ListTools() []tool.Descriptor {
	return append(s.builtinDescriptors(), s.registry.List()...)
}

// Descriptor returns the descriptor of a listed tool.
func (s *Service) Descriptor(name string) (tool.Descriptor, bool) {
	for _, descriptor := range s.ListTools() {
		if descriptor.Name == name {
			return descriptor, true
		}
	}
	return tool.Descriptor{}, false
}

// CallTool invokes a built-in or registered tool. An unregistered name yields
// *UnknownToolError without contacting the remote service. A non-zero exit of
// the remote tool is reported as an error result rather than an error.
func (s *Service) CallTool(ctx context.Context, name string, args map[string]interface{}) (*schema.CallToolResult, error) {
	callID := uuid.NewString()
	if parent, ok := mcpctx.CallID(ctx); ok {
		s.logger.Debug("nested tool call", "parent_call_id", parent, "call_id", callID)
	}
	ctx = mcpctx.WithCallID(ctx, callID)
	logger := s.logger.With("call_id", callID, "tool", name)
	started := time.Now()

	var (
		result *schema.CallToolResult
		err    error
	)
	if candidate, ok := s.builtin(name); ok {
		result, err = candidate.handle(ctx, args)
	} else if entry, ok := s.registry.Lookup(name); ok {
		result, err = s.executeRemote(ctx, entry.Handle, args)
	} else {
		err = &UnknownToolError{Name: name}
	}

	elapsed := time.Since(started)
	switch {
	case err != nil:
		logger.Warn("tool call failed", "elapsed", elapsed, "error", err)
	case conv.IsTrue(result.IsError):
		logger.Info("tool call returned error result", "elapsed", elapsed)
	default:
		logger.Info("tool call completed", "elapsed", elapsed)
	}
	return result, err
}

// CreateTool creates a tool remotely and registers it. The registry is left
// untouched when validation or the remote call fails.
func (s *Service) CreateTool(ctx context.Context, params *riza.CreateToolParams) (*riza.Tool, error) {
	if s.ToolCreationDisabled() {
		return nil, ErrToolCreationDisabled
	}
	if params == nil {
		return nil, fmt.Errorf("create tool params were nil")
	}
	if err := tool.ValidateName(params.Name); err != nil {
		return nil, err
	}
	if isBuiltinName(params.Name) {
		return nil, &registry.DuplicateToolError{Name: params.Name}
	}
	if _, err := tool.InputSchema(params.InputSchema); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	release, err := s.registry.Reserve(params.Name)
	if err != nil {
		return nil, err
	}
	defer release()
	if params.Language == "" {
		params.Language = riza.DefaultLanguage
	}
	created, err := s.remote.CreateTool(ctx, params)
	if err != nil {
		return nil, err
	}
	if created.Name == "" {
		created.Name = params.Name
	}
	if err := s.registry.Register(created); err != nil {
		s.logger.Warn("remote tool created but not registered", "tool", created.Name, "tool_id", created.ID, "error", err)
		return nil, err
	}
	s.logger.Info("tool created", "tool", created.Name, "tool_id", created.ID)
	return created, nil
}

// EditTool updates a registered tool remotely and replaces its registry
// entry in place. The input schema is carried over when not supplied since
// the remote update requires it. Renaming is not supported.
func (s *Service) EditTool(ctx context.Context, name string, params *riza.UpdateToolParams) (*riza.Tool, error) {
	entry, ok := s.registry.Lookup(name)
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	if params == nil {
		params = &riza.UpdateToolParams{}
	}
	if params.Name != nil && *params.Name != name {
		return nil, fmt.Errorf("renaming tool %s to %s is not supported", name, *params.Name)
	}
	if params.InputSchema == nil {
		params.InputSchema = entry.Handle.InputSchema
	} else if _, err := tool.InputSchema(params.InputSchema); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	updated, err := s.remote.UpdateTool(ctx, entry.Handle.ID, params)
	if err != nil {
		return nil, err
	}
	if updated.Name == "" {
		updated.Name = name
	}
	if updated.ID == "" {
		updated.ID = entry.Handle.ID
	}
	if err := s.registry.Replace(updated); err != nil {
		return nil, err
	}
	s.logger.Info("tool updated", "tool", name, "tool_id", updated.ID, "revision_id", updated.RevisionID)
	return updated, nil
}

// ExecuteCode runs an ad-hoc script; standard output is returned on success,
// the JSON encoded execution otherwise.
func (s *Service) ExecuteCode(ctx context.Context, code string, language riza.Language) (*schema.CallToolResult, error) {
	result, err := s.remote.ExecuteCode(ctx, &riza.ExecuteCodeParams{
		Code:     code,
		Language: language,
		HTTP:     s.config.Riza.HTTP,
		Env:      s.config.Riza.Env,
	})
	if err != nil {
		return nil, err
	}
	if result.ExitCode == 0 {
		return textResult(result.Stdout), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return errorResult(string(data)), nil
}

// SaveAgent persists the ids of all registered tools under name.
func (s *Service) SaveAgent(ctx context.Context, name string) (string, error) {
	entries := s.registry.Entries()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.Handle.ID)
	}
	location, err := s.agents.Save(ctx, &agent.Agent{Name: name, RizaTools: ids})
	if err != nil {
		return "", err
	}
	s.logger.Info("agent saved", "agent", name, "tools", len(ids), "location", location)
	return location, nil
}

// LoadAgent fetches every tool of a saved agent and registers them. Nothing
// is registered unless all tools could be fetched. Tool creation is disabled
// afterwards.
func (s *Service) LoadAgent(ctx context.Context, name string) error {
	saved, err := s.agents.Load(ctx, name)
	if err != nil {
		return err
	}
	handles := make([]*riza.Tool, 0, len(saved.RizaTools))
	seen := map[string]bool{}
	for _, id := range saved.RizaTools {
		handle, err := s.remote.GetTool(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch tool %s: %w", id, err)
		}
		if seen[handle.Name] || isBuiltinName(handle.Name) || s.registry.Has(handle.Name) {
			return &registry.DuplicateToolError{Name: handle.Name}
		}
		seen[handle.Name] = true
		handles = append(handles, handle)
	}
	for _, handle := range handles {
		if err := s.registry.Register(handle); err != nil {
			return err
		}
	}
	s.creationDisabled.Store(true)
	s.logger.Info("agent loaded", "agent", saved.Name, "tools", len(handles))
	return nil
}

func (s *Service) executeRemote(ctx context.Context, handle *riza.Tool, args map[string]interface{}) (*schema.CallToolResult, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	result, err := s.remote.ExecuteTool(ctx, handle.ID, &riza.ExecuteToolParams{
		Input: args,
		HTTP:  s.config.Riza.HTTP,
		Env:   s.config.Riza.Env,
	})
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return errorResult(result.Execution.Stderr), nil
	}
	return textResult(outputText(result.Output)), nil
}

// outputText renders the tool output as compact JSON; a missing output is null.
func outputText(output json.RawMessage) string {
	if len(bytes.TrimSpace(output)) == 0 {
		return "null"
	}
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, output); err != nil {
		return string(output)
	}
	return buf.String()
}

func textResult(text string) *schema.CallToolResult {
	return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{{Type: "text", Text: text}}}
}

func errorResult(text string) *schema.CallToolResult {
	ret := textResult(text)
	ret.IsError = conv.Pointer(true)
	return ret
}

func jsonResult(value interface{}) (*schema.CallToolResult, error) {
	text, err := conv.Text(value)
	if err != nil {
		return nil, err
	}
	return textResult(text), nil
}
