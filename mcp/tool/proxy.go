package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/riza-io/riza-mcp/mcp/tool/conversion"
	"github.com/viant/fluxor/model/types"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// Catalog lists the tools a Proxy exposes.
type Catalog interface {
	List() []Descriptor
}

// Caller invokes a tool by name.
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcpschema.CallToolResult, error)
}

// Result is the workflow output of a proxied tool call. Data holds the
// decoded JSON text when the tool returned JSON.
type Result struct {
	Text string      `json:"text,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// Proxy implements types.Service by delegating each method to the tool with
// the same name. Methods are derived from the catalog on every call so tools
// registered after start-up are visible to workflows.
type Proxy struct {
	name    string
	catalog Catalog
	caller  Caller

	mu    sync.Mutex
	types map[string]cachedType
}

type cachedType struct {
	schema string
	rType  reflect.Type
}

var resultType = reflect.TypeOf(Result{})

// NewProxy creates a proxy named name.
func NewProxy(name string, catalog Catalog, caller Caller) *Proxy {
	return &Proxy{name: name, catalog: catalog, caller: caller, types: map[string]cachedType{}}
}

func (p *Proxy) Name() string {
	return p.name
}

func (p *Proxy) Methods() types.Signatures {
	descriptors := p.catalog.List()
	ret := make(types.Signatures, 0, len(descriptors))
	for _, descriptor := range descriptors {
		ret = append(ret, types.Signature{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			Input:       p.inputType(descriptor),
			Output:      resultType,
		})
	}
	return ret
}

func (p *Proxy) Method(name string) (types.Executable, error) {
	if _, ok := p.lookup(name); !ok {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(ctx context.Context, input, output interface{}) error {
		args, err := conv.ToMap(input)
		if err != nil {
			return fmt.Errorf("invalid input for %s.%s: %w", p.name, name, err)
		}
		res, err := p.caller.CallTool(ctx, name, args)
		if err != nil {
			return err
		}
		text := resultText(res)
		if conv.IsTrue(res.IsError) {
			return errors.New(text)
		}
		return assignOutput(text, res, output)
	}, nil
}

func (p *Proxy) lookup(name string) (Descriptor, bool) {
	for _, descriptor := range p.catalog.List() {
		if descriptor.Name == name {
			return descriptor, true
		}
	}
	return Descriptor{}, false
}

// inputType caches the generated struct per tool, rebuilding it when an
// edited tool changes its schema.
func (p *Proxy) inputType(descriptor Descriptor) reflect.Type {
	key, _ := json.Marshal(descriptor.InputSchema)
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.types[descriptor.Name]; ok && cached.schema == string(key) {
		return cached.rType
	}
	rType, err := conversion.TypeFromInputSchema(descriptor.InputSchema)
	if err != nil {
		rType = reflect.TypeOf(map[string]interface{}{})
	}
	p.types[descriptor.Name] = cachedType{schema: string(key), rType: rType}
	return rType
}

func resultText(res *mcpschema.CallToolResult) string {
	if len(res.Content) == 1 && res.Content[0].Type == "text" {
		return res.Content[0].Text
	}
	data, _ := json.Marshal(res.Content)
	return string(data)
}

func assignOutput(text string, res *mcpschema.CallToolResult, output interface{}) error {
	switch v := output.(type) {
	case nil:
	case *Result:
		v.Text = text
		var data interface{}
		if json.Unmarshal([]byte(text), &data) == nil {
			v.Data = data
		}
	case *string:
		*v = text
	case **mcpschema.CallToolResult:
		*v = res
	default:
		if err := json.Unmarshal([]byte(text), output); err != nil {
			return fmt.Errorf("failed to decode tool output: %w", err)
		}
	}
	return nil
}
