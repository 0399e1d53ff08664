package cmd

import (
	"fmt"
	"sort"
)

// ListActionsCmd prints every workflow service and its actions. Created tools
// appear as actions of the "riza" service.
type ListActionsCmd struct {
	Service string `short:"s" long:"service" description:"only list actions of this service"`
}

func (c *ListActionsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	actions := svc.WorkflowService().Actions()
	names := actions.Services()
	sort.Strings(names)
	for _, name := range names {
		if c.Service != "" && name != c.Service {
			continue
		}
		s := actions.Lookup(name)
		if s == nil {
			continue
		}
		fmt.Println(name)
		sigs := s.Methods()
		sort.Slice(sigs, func(i, j int) bool { return sigs[i].Name < sigs[j].Name })
		for _, sig := range sigs {
			fmt.Printf("  %s\t%s\n", sig.Name, sig.Description)
		}
	}
	return nil
}
