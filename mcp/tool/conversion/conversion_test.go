package conversion

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	schema "github.com/viant/mcp-protocol/schema"
)

func typeFromJSON(t *testing.T, schemaJSON string) reflect.Type {
	t.Helper()
	var inputSchema schema.ToolInputSchema
	require.NoError(t, json.Unmarshal([]byte(schemaJSON), &inputSchema))
	rType, err := TypeFromInputSchema(inputSchema)
	require.NoError(t, err)
	require.EqualValues(t, reflect.Struct, rType.Kind())
	return rType
}

func TestTypeFromInputSchema_RoundTrip(t *testing.T) {
	testCases := []struct {
		name        string
		schemaJSON  string
		payloadJSON string
	}{
		{
			name:        "add tool",
			schemaJSON:  `{ "properties": { "a": { "type": "integer" }, "b": { "type": "integer" } }, "required": ["a","b"], "type": "object" }`,
			payloadJSON: `{"a":1,"b":2}`,
		},
		{
			name: "nested object",
			schemaJSON: `{
               "properties": {
                   "customer": {
                       "type": "object",
                       "properties": {
                           "id": { "type": "string" },
                           "balance": { "type": "number" }
                       },
                       "required": ["id","balance"]
                   }
               },
               "type": "object"
           }`,
			payloadJSON: `{"customer":{"id":"cus_1","balance":12.5}}`,
		},
		{
			name:        "array of strings",
			schemaJSON:  `{ "properties": { "channels": { "type": "array", "items": { "type": "string" } } }, "type": "object" }`,
			payloadJSON: `{"channels":["general","random"]}`,
		},
		{
			name:        "free-form object",
			schemaJSON:  `{ "properties": { "input": { "type": "object" } }, "type": "object" }`,
			payloadJSON: `{"input":{"anything":[1,"two"]}}`,
		},
		{
			name:        "date-time string",
			schemaJSON:  `{ "properties": { "since": { "type": "string", "format": "date-time" } }, "type": "object" }`,
			payloadJSON: `{"since":"2024-06-01T12:00:00Z"}`,
		},
		{
			name:        "snake case names",
			schemaJSON:  `{ "properties": { "tool_name": { "type": "string" }, "input_schema": { "type": "object" } }, "type": "object" }`,
			payloadJSON: `{"tool_name":"add","input_schema":{"type":"object"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rType := typeFromJSON(t, tc.schemaJSON)
			inst := reflect.New(rType).Interface()
			require.NoError(t, json.Unmarshal([]byte(tc.payloadJSON), inst))

			jsonOut, err := json.Marshal(inst)
			require.NoError(t, err)
			assert.JSONEq(t, tc.payloadJSON, string(jsonOut))
		})
	}
}

func TestTypeFromInputSchema_Fields(t *testing.T) {
	rType := typeFromJSON(t, `{
        "properties": {
            "tool_name": { "type": "string", "description": "registered tool name" },
            "language": { "type": "string", "enum": ["TYPESCRIPT","PYTHON"] },
            "count": { "type": "integer" },
            "2fa": { "type": "boolean" }
        },
        "required": ["tool_name"],
        "type": "object"
    }`)

	field, ok := rType.FieldByName("ToolName")
	require.True(t, ok)
	assert.Equal(t, "tool_name", field.Tag.Get("json"))
	assert.Equal(t, "registered tool name", field.Tag.Get("description"))

	field, ok = rType.FieldByName("Language")
	require.True(t, ok)
	assert.Equal(t, "language,omitempty", field.Tag.Get("json"))
	assert.Contains(t, string(field.Tag), `choice:"TYPESCRIPT"`)
	assert.Contains(t, string(field.Tag), `choice:"PYTHON"`)

	field, ok = rType.FieldByName("Count")
	require.True(t, ok)
	assert.EqualValues(t, reflect.Int64, field.Type.Kind())

	field, ok = rType.FieldByName("F2fa")
	require.True(t, ok)
	assert.EqualValues(t, reflect.Bool, field.Type.Kind())
}

func TestTypeFromInputSchema_Empty(t *testing.T) {
	rType, err := TypeFromInputSchema(schema.ToolInputSchema{Type: "object"})
	require.NoError(t, err)
	assert.EqualValues(t, reflect.Struct, rType.Kind())
	assert.Equal(t, 0, rType.NumField())
}

func TestExportedName(t *testing.T) {
	var testCases = []struct {
		in     string
		expect string
	}{
		{"id", "Id"},
		{"tool_name", "ToolName"},
		{"input-schema", "InputSchema"},
		{"2fa", "F2fa"},
		{"$ref", "Ref"},
		{"__", "Field"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, exportedName(tc.in), tc.in)
	}
}

func TestBuildFields_DuplicateNames(t *testing.T) {
	fields, err := buildFields(map[string]map[string]interface{}{
		"tool_name": {"type": "string"},
		"toolName":  {"type": "string"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.NotEqual(t, fields[0].Name, fields[1].Name)
	assert.NotPanics(t, func() { reflect.StructOf(fields) })
}
