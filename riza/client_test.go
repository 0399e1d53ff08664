package riza

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, options ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	options = append([]Option{WithBaseURL(server.URL), WithAPIKey("test-key")}, options...)
	return New(options...)
}

func TestClient_CreateTool(t *testing.T) {
	var received CreateToolParams
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tools", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(Tool{
			ID:          "tool_1",
			Name:        received.Name,
			Description: received.Description,
			Code:        received.Code,
			InputSchema: received.InputSchema,
			Language:    received.Language,
			RevisionID:  "rev_1",
		})
	})

	schema := map[string]interface{}{"type": "object"}
	tool, err := client.CreateTool(context.Background(), &CreateToolParams{
		Name:        "add",
		Description: "adds two numbers",
		Code:        "function execute(input) { return input.a + input.b }",
		InputSchema: schema,
		Language:    LanguageTypeScript,
	})
	require.NoError(t, err)
	assert.Equal(t, "tool_1", tool.ID)
	assert.Equal(t, "add", tool.Name)
	assert.Equal(t, "adds two numbers", tool.Description)
	assert.EqualValues(t, schema, tool.InputSchema)
	assert.Equal(t, "add", received.Name)
}

func TestClient_CreateTool_Validation(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	_, err := client.CreateTool(context.Background(), &CreateToolParams{Name: "add"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteService))
	assert.False(t, called)
}

func TestClient_Errors(t *testing.T) {
	var testCases = []struct {
		name        string
		status      int
		body        string
		expectCode  int
		expectInMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"invalid api key"}`, expectCode: 401, expectInMsg: "invalid api key"},
		{name: "validation", status: http.StatusBadRequest, body: `{"error":"name already taken"}`, expectCode: 400, expectInMsg: "name already taken"},
		{name: "plain text", status: http.StatusInternalServerError, body: "upstream exploded", expectCode: 500, expectInMsg: "upstream exploded"},
		{name: "undecodable", status: http.StatusOK, body: "not json", expectCode: 200, expectInMsg: "failed to decode response"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.GetTool(context.Background(), "tool_1")
			require.Error(t, err)
			var remoteErr *RemoteServiceError
			require.True(t, errors.As(err, &remoteErr))
			assert.True(t, errors.Is(err, ErrRemoteService))
			assert.Equal(t, "get_tool", remoteErr.Op)
			assert.Equal(t, tc.expectCode, remoteErr.StatusCode)
			assert.Contains(t, err.Error(), tc.expectInMsg)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := client.ExecuteTool(context.Background(), "tool_1", &ExecuteToolParams{Input: map[string]interface{}{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteService))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := New(WithBaseURL(baseURL))
	_, err := client.ListTools(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteService))
}

func TestClient_ExecuteTool(t *testing.T) {
	var received map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tools/tool_1/execute", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"execution":{"exit_code":0,"stdout":"","stderr":"","duration":12},"output":{"sum":3},"output_status":"valid"}`))
	})

	result, err := client.ExecuteTool(context.Background(), "tool_1", &ExecuteToolParams{
		Input: map[string]interface{}{"a": 1, "b": 2},
		HTTP: &HTTPConfig{Allow: []*HTTPAllow{
			{Host: "api.example.com", Auth: &HTTPAuth{Bearer: &BearerAuth{Token: "secret"}}},
		}},
	})
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.JSONEq(t, `{"sum":3}`, string(result.Output))
	assert.EqualValues(t, 12, result.Execution.Duration)

	assert.EqualValues(t, map[string]interface{}{"a": float64(1), "b": float64(2)}, received["input"])
	allow := received["http"].(map[string]interface{})["allow"].([]interface{})
	require.Len(t, allow, 1)
	assert.EqualValues(t, "api.example.com", allow[0].(map[string]interface{})["host"])
}

func TestClient_UpdateTool(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tools/tool_1", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "name")
		assert.EqualValues(t, "return 1", body["code"])
		_, _ = w.Write([]byte(`{"id":"tool_1","name":"add","code":"return 1","revision_id":"rev_2"}`))
	})
	code := "return 1"
	tool, err := client.UpdateTool(context.Background(), "tool_1", &UpdateToolParams{Code: &code})
	require.NoError(t, err)
	assert.Equal(t, "rev_2", tool.RevisionID)
}

func TestClient_ExecuteCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/execute", r.URL.Path)
		var body ExecuteCodeParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, LanguageTypeScript, body.Language)
		_, _ = w.Write([]byte(`{"exit_code":0,"stdout":"hello\n","stderr":""}`))
	})
	result, err := client.ExecuteCode(context.Background(), &ExecuteCodeParams{Code: "console.log('hello')"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
}

func TestClient_ListTools(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"tools":[{"id":"a","name":"add"},{"id":"b","name":"sub"}]}`))
	})
	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "sub", tools[1].Name)
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	assert.Equal(t, "from-env", New().apiKey)
	assert.Equal(t, "explicit", New(WithAPIKey("explicit")).apiKey)
	assert.Equal(t, "from-env", New(WithAPIKey("")).apiKey)
}
