package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// ActionCmd shows detailed information about one workflow action. For created
// tools the input definition is the struct derived from the tool input schema.
type ActionCmd struct {
	Name string `short:"n" long:"name" description:"identifier in form service/method, e.g. riza/add or system/exec/execute" positional-arg-name:"name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

type actionInfo struct {
	Service     string `json:"service"`
	Method      string `json:"method"`
	Description string `json:"description"`
	InputType   string `json:"inputType"`
	OutputType  string `json:"outputType"`
	InputDef    string `json:"inputDefinition,omitempty"`
}

func (c *ActionCmd) Execute(_ []string) error {
	svcName, method, err := splitAction(c.Name)
	if err != nil {
		return err
	}
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	s := svc.WorkflowService().Actions().Lookup(svcName)
	if s == nil {
		return fmt.Errorf("service %q not found", svcName)
	}
	sig := s.Methods().Lookup(method)
	if sig == nil {
		return fmt.Errorf("method %q not found in service %q", method, svcName)
	}
	info := &actionInfo{
		Service:     svcName,
		Method:      method,
		Description: sig.Description,
		InputType:   typeString(sig.Input),
		OutputType:  typeString(sig.Output),
		InputDef:    structDefinition(sig.Input),
	}

	if c.JSON {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Service : %s\n", info.Service)
	fmt.Printf("Method  : %s\n", info.Method)
	fmt.Printf("Desc    : %s\n", info.Description)
	fmt.Printf("Input   : %s\n", info.InputType)
	fmt.Printf("Output  : %s\n", info.OutputType)
	if info.InputDef != "" {
		fmt.Printf("\nInput Definition:\n%s\n", info.InputDef)
	}
	return nil
}

// splitAction separates the method from a possibly nested service name.
func splitAction(name string) (string, string, error) {
	idx := strings.LastIndex(name, "/")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", fmt.Errorf("name must be service/method, got %q", name)
	}
	return name[:idx], name[idx+1:], nil
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<none>"
	}
	if t.Kind() == reflect.Pointer {
		return "*" + typeString(t.Elem())
	}
	if t.Name() == "" && t.Kind() == reflect.Struct {
		return "struct{...}"
	}
	return t.String()
}

// structDefinition renders anonymous struct types as Go source; named types
// are described by their name alone.
func structDefinition(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" || t.Kind() != reflect.Struct {
		return ""
	}
	var b strings.Builder
	b.WriteString("struct {\n")
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fmt.Fprintf(&b, "    %s %s", f.Name, f.Type.String())
		if tag := strings.TrimSpace(string(f.Tag)); tag != "" {
			fmt.Fprintf(&b, " `%s`", tag)
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
