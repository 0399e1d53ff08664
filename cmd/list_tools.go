package cmd

import (
	"fmt"
)

// ListToolsCmd prints every available tool in listing order.
type ListToolsCmd struct {
	Remote bool `long:"remote" description:"list created tools only"`
}

func (c *ListToolsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	tools := svc.ListTools()
	if c.Remote {
		tools = svc.Registry().List()
	}
	for _, t := range tools {
		fmt.Printf("%s\t%s\n", t.Name, t.Description)
	}
	return nil
}
