package mcp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool matches every *UnknownToolError via errors.Is.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolCreationDisabled is returned by CreateTool once an agent was loaded
	// or creation was disabled in configuration.
	ErrToolCreationDisabled = errors.New("tool creation is disabled")
)

// UnknownToolError reports a lookup miss; no remote call was made.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %s not found", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }
