package tool

import (
	"fmt"
	"regexp"
)

// MaxNameLength mirrors the MCP limit on tool names.
const MaxNameLength = 64

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateName checks that name can be published as an MCP tool name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("tool name was empty")
	case len(name) > MaxNameLength:
		return fmt.Errorf("tool name %q exceeds %d characters", name, MaxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("tool name %q may only contain letters, digits, '_' and '-'", name)
	}
	return nil
}
