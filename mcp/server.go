package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	protocolclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	"github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"
)

// ToolsListChanged is sent to connected clients after the tool set changes.
const ToolsListChanged = "notifications/tools/list_changed"

// Handler serves tools/list and tools/call straight from the service so that
// clients see tools in registration order, including tools created after the
// connection was established. Other MCP methods fall back to the default
// handler.
type Handler struct {
	*serverproto.DefaultHandler
	service *Service
}

// NewHandler returns an MCP handler for one client connection.
func (s *Service) NewHandler(ctx context.Context, notifier transport.Notifier, l logger.Logger, cli protocolclient.Operations) (serverproto.Handler, error) {
	impl := serverproto.NewDefaultHandler(notifier, l, cli)
	impl.Methods.Put(schema.MethodToolsList, true)
	impl.Methods.Put(schema.MethodToolsCall, true)
	impl.ServerCapabilities = &schema.ServerCapabilities{
		Tools: &schema.ServerCapabilitiesTools{ListChanged: conv.Pointer(true)},
	}
	if notifier != nil {
		s.notifiers.Set(uuid.NewString(), notifier)
	}
	return &Handler{DefaultHandler: impl, service: s}, nil
}

// ListTools lists built-in tools followed by created tools in registration
// order.
func (h *Handler) ListTools(ctx context.Context, request *schema.ListToolsRequest) (*schema.ListToolsResult, *jsonrpc.Error) {
	descriptors := h.service.ListTools()
	tools := make([]schema.Tool, 0, len(descriptors))
	for _, descriptor := range descriptors {
		tools = append(tools, descriptor.Metadata())
	}
	return &schema.ListToolsResult{Tools: tools}, nil
}

// CallTool invokes a listed tool. An unlisted name is an invalid params error;
// every failure of a listed tool, including a lookup miss inside a built-in
// such as use_tool, is returned as an error result.
func (h *Handler) CallTool(ctx context.Context, request *schema.CallToolRequest) (*schema.CallToolResult, *jsonrpc.Error) {
	name := request.Params.Name
	if !h.service.hasTool(name) {
		return nil, jsonrpc.NewError(jsonrpc.InvalidParams, (&UnknownToolError{Name: name}).Error(), nil)
	}
	result, err := h.service.CallTool(ctx, name, request.Params.Arguments)
	return toolCallResult(result, err)
}

// hasTool reports whether name is currently listed.
func (s *Service) hasTool(name string) bool {
	if _, ok := s.builtin(name); ok {
		return true
	}
	return s.registry.Has(name)
}

// onRegistryChange notifies live connections; a notifier that fails is
// dropped.
func (s *Service) onRegistryChange() {
	ctx := context.Background()
	for id, notifier := range s.notifiers.Snapshot() {
		if err := notifier.Notify(ctx, &jsonrpc.Notification{Jsonrpc: jsonrpc.Version, Method: ToolsListChanged}); err != nil {
			s.logger.Debug("dropping notifier", "connection_id", id, "error", err)
			s.notifiers.Delete(id)
		}
	}
}

// toolCallResult turns a handler error into an error result the model can
// read.
func toolCallResult(result *schema.CallToolResult, err error) (*schema.CallToolResult, *jsonrpc.Error) {
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return result, nil
}
