package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp"
	"github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
)

func newTestClient(t *testing.T, svc *Service) mcpclient.Interface {
	t.Helper()
	srv, err := mcp.NewServer(svc.NewHandler, nil)
	require.NoError(t, err)
	return srv.AsClient(context.Background())
}

func TestToolCallResult(t *testing.T) {
	var testCases = []struct {
		name        string
		result      *schema.CallToolResult
		err         error
		expectError bool
		expectText  string
	}{
		{name: "success", result: textResult("42"), expectText: "42"},
		{name: "error result", result: errorResult("stderr"), expectError: true, expectText: "stderr"},
		{name: "inner unknown tool", err: &UnknownToolError{Name: "missing"}, expectError: true, expectText: "tool missing not found"},
		{name: "remote failure", err: &riza.RemoteServiceError{Op: "execute_tool", StatusCode: 500, Message: "internal"}, expectError: true, expectText: "riza execute_tool failed (status 500): internal"},
		{name: "wrapped", err: errors.New("boom"), expectError: true, expectText: "boom"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, rpcErr := toolCallResult(tc.result, tc.err)
			assert.Nil(t, rpcErr)
			require.NotNil(t, result)
			assert.Equal(t, tc.expectError, conv.IsTrue(result.IsError))
			assert.Equal(t, tc.expectText, result.Content[0].Text)
		})
	}
}

func TestActionServiceNames(t *testing.T) {
	var testCases = []struct {
		name     string
		patterns []string
		expect   []string
	}{
		{name: "defaults", patterns: []string{"nop", "printer"}, expect: []string{"nop", "printer"}},
		{name: "all", patterns: []string{"*"}, expect: []string{"nop", "printer", "system/exec", "system/secret", "system/storage"}},
		{name: "system without exec", patterns: []string{"system/", "!system/exec"}, expect: []string{"system/secret", "system/storage"}},
		{name: "none", patterns: []string{"none"}, expect: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, actionServiceNames(tc.patterns))
			assert.Len(t, resolveActionServices(tc.patterns), len(tc.expect))
		})
	}
}

func toolNames(result *schema.ListToolsResult) []string {
	names := []string{}
	for _, candidate := range result.Tools {
		names = append(names, candidate.Name)
	}
	return names
}

func TestServer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc := newTestService(t, testConfig(t, CreateToolName, UseToolName), remote)
	cli := newTestClient(t, svc)

	initialized, err := cli.Initialize(ctx)
	require.Nil(t, err)
	require.NotNil(t, initialized.Capabilities.Tools)
	assert.True(t, conv.IsTrue(initialized.Capabilities.Tools.ListChanged))

	listed, err := cli.ListTools(ctx, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{CreateToolName, UseToolName}, toolNames(listed))

	created, err := cli.CallTool(ctx, &schema.CallToolRequestParams{
		Name: CreateToolName,
		Arguments: schema.CallToolRequestParamsArguments{
			"name":         "add",
			"description":  "adds two numbers",
			"code":         "function execute(input) { return input.a + input.b }",
			"input_schema": addSchema(),
		},
	})
	require.Nil(t, err)
	require.Len(t, created.Content, 1)
	assert.Equal(t, "Created tool: add", created.Content[0].Text)

	listed, err = cli.ListTools(ctx, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{CreateToolName, UseToolName, "add"}, toolNames(listed))
	assert.Equal(t, "adds two numbers", conv.Dereference(listed.Tools[2].Description))
	assert.Equal(t, []string{"a", "b"}, listed.Tools[2].InputSchema.Required)

	called, err := cli.CallTool(ctx, &schema.CallToolRequestParams{
		Name:      "add",
		Arguments: schema.CallToolRequestParamsArguments{"a": 1, "b": 2},
	})
	require.Nil(t, err)
	assert.False(t, conv.IsTrue(called.IsError))
	assert.Equal(t, `{"ok":true}`, called.Content[0].Text)

	duplicate, err := cli.CallTool(ctx, &schema.CallToolRequestParams{
		Name:      CreateToolName,
		Arguments: schema.CallToolRequestParamsArguments{"name": "add", "code": "x"},
	})
	require.Nil(t, err)
	assert.True(t, conv.IsTrue(duplicate.IsError))
	assert.Contains(t, duplicate.Content[0].Text, "already exists")
	assert.Equal(t, 1, remote.created)

	inner, err := cli.CallTool(ctx, &schema.CallToolRequestParams{
		Name:      UseToolName,
		Arguments: schema.CallToolRequestParamsArguments{"name": "missing"},
	})
	require.Nil(t, err)
	assert.True(t, conv.IsTrue(inner.IsError))
	assert.Equal(t, "tool missing not found", inner.Content[0].Text)

	_, err = cli.CallTool(ctx, &schema.CallToolRequestParams{Name: "nonexistent"})
	var rpcErr *jsonrpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, jsonrpc.InvalidParams, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "nonexistent")
	assert.Len(t, remote.executions(), 1)
}

func TestServer_ListToolsKeepsRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig(t, "none"), newFakeRemote())
	cli := newTestClient(t, svc)
	_, err := cli.Initialize(ctx)
	require.Nil(t, err)

	expect := []string{}
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("tool_%d", i)
		_, err := svc.CreateTool(ctx, &riza.CreateToolParams{Name: name, Code: "x"})
		require.NoError(t, err)
		expect = append(expect, name)
	}
	for i := 0; i < 20; i++ {
		listed, err := cli.ListTools(ctx, nil)
		require.Nil(t, err)
		require.Equal(t, expect, toolNames(listed))
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	methods []string
	fail    bool
}

func (n *recordingNotifier) Notify(ctx context.Context, notification *jsonrpc.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods = append(n.methods, notification.Method)
	if n.fail {
		return errors.New("connection closed")
	}
	return nil
}

func (n *recordingNotifier) received() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.methods...)
}

func TestServer_ToolsListChanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig(t, "none"), newFakeRemote())
	live := &recordingNotifier{}
	closed := &recordingNotifier{fail: true}
	for _, notifier := range []*recordingNotifier{live, closed} {
		handler, err := svc.NewHandler(ctx, notifier, nil, nil)
		require.NoError(t, err)
		assert.True(t, handler.Implements(schema.MethodToolsList))
		assert.True(t, handler.Implements(schema.MethodToolsCall))
	}

	_, err := svc.CreateTool(ctx, &riza.CreateToolParams{Name: "add", Code: "x"})
	require.NoError(t, err)
	_, err = svc.CreateTool(ctx, &riza.CreateToolParams{Name: "sub", Code: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{ToolsListChanged, ToolsListChanged}, live.received())
	assert.Equal(t, []string{ToolsListChanged}, closed.received())
}
