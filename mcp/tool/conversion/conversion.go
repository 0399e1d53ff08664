package conversion

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	schema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/x"
)

// typeRegistry holds dynamic Go types generated from JSON Schemas.
var typeRegistry = x.NewRegistry()

// Registry returns the registry of dynamic types.
func Registry() *x.Registry {
	return typeRegistry
}

// RegisterType registers a Go type for schema-based conversion.
func RegisterType(t reflect.Type, options ...x.Option) {
	typeRegistry.Register(x.NewType(t, options...))
}

// TypeFromInputSchema converts an MCP ToolInputSchema into a dynamically
// generated Go struct type.
//
// When the schema does not define any properties an empty struct type is
// returned; callers rely on a struct kind even for parameter-less tools.
func TypeFromInputSchema(inputSchema schema.ToolInputSchema) (reflect.Type, error) {
	if len(inputSchema.Properties) == 0 {
		return reflect.StructOf([]reflect.StructField{}), nil
	}
	fields, err := buildFields(inputSchema.Properties, inputSchema.Required)
	if err != nil {
		return nil, err
	}
	t := reflect.StructOf(fields)
	RegisterType(t)
	return t, nil
}

func buildFields(props map[string]map[string]interface{}, required []string) ([]reflect.StructField, error) {
	keys := make([]string, 0, len(props))
	for name := range props {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	requiredSet := make(map[string]struct{}, len(required))
	for _, n := range required {
		requiredSet[n] = struct{}{}
	}
	used := make(map[string]int, len(keys))
	var fields []reflect.StructField
	for _, name := range keys {
		def := props[name]
		fieldType, err := goTypeFromDef(def)
		if err != nil {
			return nil, fmt.Errorf("failed to determine type for field %q: %w", name, err)
		}
		tagName := name
		if _, ok := requiredSet[name]; !ok {
			tagName += ",omitempty"
		}
		fieldName := exportedName(name)
		if count := used[fieldName]; count > 0 {
			used[fieldName]++
			fieldName += strconv.Itoa(count)
		} else {
			used[fieldName] = 1
		}
		fields = append(fields, reflect.StructField{
			Name: fieldName,
			Type: fieldType,
			Tag:  fieldTag(tagName, def),
		})
	}
	return fields, nil
}

// fieldTag carries the json name plus description and enum choices.
func fieldTag(jsonName string, def map[string]interface{}) reflect.StructTag {
	tag := fmt.Sprintf("json:%q", jsonName)
	if description, ok := def["description"].(string); ok && description != "" {
		tag += fmt.Sprintf(" description:%q", description)
	}
	if enum, ok := def["enum"].([]interface{}); ok {
		for _, item := range enum {
			tag += fmt.Sprintf(" choice:%q", fmt.Sprint(item))
		}
	}
	return reflect.StructTag(tag)
}

// exportedName turns a JSON property name into a valid exported Go identifier:
// "tool_name" becomes "ToolName", "2fa" becomes "F2fa".
func exportedName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	ret := sb.String()
	if ret == "" {
		return "Field"
	}
	if first := []rune(ret)[0]; !unicode.IsUpper(first) {
		ret = "F" + ret
	}
	return ret
}

func goTypeFromDef(def map[string]interface{}) (reflect.Type, error) {
	var typeStr string
	switch v := def["type"].(type) {
	case string:
		typeStr = v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				typeStr = s
			}
		}
	}
	switch typeStr {
	case "string":
		if format, ok := def["format"].(string); ok && (format == "date-time" || format == "date") {
			return reflect.TypeOf(time.Time{}), nil
		}
		return reflect.TypeOf(""), nil
	case "integer":
		return reflect.TypeOf(int64(0)), nil
	case "number":
		return reflect.TypeOf(float64(0)), nil
	case "boolean":
		return reflect.TypeOf(true), nil
	case "object":
		raw, ok := def["properties"].(map[string]interface{})
		if !ok || len(raw) == 0 {
			return reflect.TypeOf(map[string]interface{}{}), nil
		}
		nested := map[string]map[string]interface{}{}
		for k, v := range raw {
			if m, ok := v.(map[string]interface{}); ok {
				nested[k] = m
			}
		}
		var nestedRequired []string
		if rawReq, ok := def["required"].([]interface{}); ok {
			for _, item := range rawReq {
				if s, ok := item.(string); ok {
					nestedRequired = append(nestedRequired, s)
				}
			}
		}
		fields, err := buildFields(nested, nestedRequired)
		if err != nil {
			return nil, err
		}
		nestedType := reflect.StructOf(fields)
		RegisterType(nestedType)
		return nestedType, nil
	case "array":
		if raw, ok := def["items"].(map[string]interface{}); ok {
			itemType, err := goTypeFromDef(raw)
			if err != nil {
				return nil, err
			}
			return reflect.SliceOf(itemType), nil
		}
		return reflect.SliceOf(reflect.TypeOf(new(interface{})).Elem()), nil
	default:
		return reflect.TypeOf(new(interface{})).Elem(), nil
	}
}
