package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riza-io/riza-mcp/riza"
	"github.com/viant/afs"
)

// CreateToolCmd creates a remote tool from a source file. Since the registry
// lives in-process, --agent saves the resulting tool set so that a later
// `serve` can load it.
type CreateToolCmd struct {
	Name        string `short:"n" long:"name" description:"tool name" required:"yes"`
	Description string `short:"d" long:"description" description:"tool description"`
	Code        string `short:"s" long:"source" description:"tool source file path or URL" required:"yes"`
	Schema      string `long:"schema" description:"JSON schema file path or URL describing the tool input"`
	Language    string `short:"l" long:"language" description:"TYPESCRIPT, PYTHON or JAVASCRIPT" default:"TYPESCRIPT"`
	Agent       string `short:"a" long:"agent" description:"save the created tools as this agent"`
}

func (c *CreateToolCmd) Execute(_ []string) error {
	language, err := riza.ParseLanguage(c.Language)
	if err != nil {
		return err
	}
	ctx := context.Background()
	fs := afs.New()
	code, err := fs.DownloadWithURL(ctx, c.Code)
	if err != nil {
		return fmt.Errorf("read tool source %s: %w", c.Code, err)
	}
	var inputSchema map[string]interface{}
	if c.Schema != "" {
		data, err := fs.DownloadWithURL(ctx, c.Schema)
		if err != nil {
			return fmt.Errorf("read input schema %s: %w", c.Schema, err)
		}
		if err := json.Unmarshal(data, &inputSchema); err != nil {
			return fmt.Errorf("decode input schema: %w", err)
		}
	}

	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	created, err := svc.CreateTool(ctx, &riza.CreateToolParams{
		Name:        c.Name,
		Description: c.Description,
		Code:        string(code),
		InputSchema: inputSchema,
		Language:    language,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\t%s\n", created.Name, created.ID, created.RevisionID)
	if c.Agent == "" {
		return nil
	}
	location, err := svc.SaveAgent(ctx, c.Agent)
	if err != nil {
		return err
	}
	fmt.Printf("agent %s saved to %s\n", c.Agent, location)
	return nil
}
