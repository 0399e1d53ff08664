package cmd

import (
	"encoding/json"
	"fmt"
)

// ToolCmd prints the description and input schema of a single tool.
type ToolCmd struct {
	Name string `short:"n" long:"name" description:"tool name" positional-arg-name:"name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

func (c *ToolCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	descriptor, ok := svc.Descriptor(c.Name)
	if !ok {
		return fmt.Errorf("tool %q not found", c.Name)
	}

	if c.JSON {
		data, _ := json.MarshalIndent(descriptor.Metadata(), "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Name : %s\n", descriptor.Name)
	fmt.Printf("Desc : %s\n", descriptor.Description)
	js, _ := json.MarshalIndent(descriptor.InputSchema, "", "  ")
	fmt.Printf("InputSchema:\n%s\n", string(js))
	return nil
}
