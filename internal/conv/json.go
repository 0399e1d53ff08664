package conv

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Convert performs a best-effort conversion of the input value into the type
// pointed to by outPtr.
//
// When input is already assignable to the destination element type it is
// copied directly, otherwise Convert falls back to a JSON round-trip. Tool
// arguments arrive as generic maps and are decoded into typed inputs this way.
//
// A nil input leaves outPtrʼs value untouched (zero value).
func Convert(in any, outPtr any) error {
	if outPtr == nil {
		return fmt.Errorf("conv.Convert: outPtr cannot be nil")
	}
	v := reflect.ValueOf(outPtr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("conv.Convert: outPtr must be a non-nil pointer")
	}
	if in == nil {
		return nil
	}

	inVal := reflect.ValueOf(in)
	if inVal.Type().AssignableTo(v.Elem().Type()) {
		v.Elem().Set(inVal)
		return nil
	}

	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, outPtr)
}

// ToMap converts an arbitrary input value into a map[string]interface{} using
// the same strategy as Convert. A nil input yields an empty, non-nil map so
// that the result always encodes as a JSON object.
func ToMap(in any) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := Convert(in, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

// Text renders a tool output as text: strings and byte slices are used as-is,
// everything else is JSON encoded.
func Text(output any) (string, error) {
	switch actual := output.(type) {
	case string:
		return actual, nil
	case []byte:
		return string(actual), nil
	default:
		data, err := json.Marshal(output)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
