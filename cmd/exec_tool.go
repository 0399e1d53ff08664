package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/riza-io/riza-mcp/internal/conv"
	"github.com/viant/mcp-protocol/schema"
)

// ExecCmd calls a built-in or created tool. Arguments are supplied inline via
// -i/--input or loaded from a JSON file via -f/--file.
type ExecCmd struct {
	Name       string `short:"n" long:"name" positional-arg-name:"tool" description:"tool name" required:"yes"`
	Inline     string `short:"i" long:"input" description:"inline JSON arguments (object)"`
	File       string `short:"f" long:"file" description:"path to JSON file with arguments (use - for stdin)"`
	TimeoutSec int    `long:"timeout" description:"seconds to wait for completion" default:"120"`
	JSON       bool   `long:"json" description:"print the raw tool result as JSON"`
}

func (c *ExecCmd) Execute(_ []string) error {
	if c.Inline != "" && c.File != "" {
		return fmt.Errorf("-i/--input and -f/--file are mutually exclusive")
	}
	args, err := c.arguments()
	if err != nil {
		return err
	}

	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	timeout := time.Duration(c.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := svc.CallTool(ctx, c.Name, args)
	if err != nil {
		return err
	}
	if c.JSON {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Println(contentText(result))
	}
	if conv.IsTrue(result.IsError) {
		return errors.New("tool " + c.Name + " returned an error")
	}
	return nil
}

func (c *ExecCmd) arguments() (map[string]interface{}, error) {
	var args map[string]interface{}
	switch {
	case c.Inline != "":
		if err := json.Unmarshal([]byte(c.Inline), &args); err != nil {
			return nil, fmt.Errorf("invalid inline JSON: %w", err)
		}
	case c.File != "":
		var rdr io.Reader
		if c.File == "-" {
			rdr = os.Stdin
		} else {
			f, err := os.Open(c.File)
			if err != nil {
				return nil, fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()
			rdr = f
		}
		data, err := io.ReadAll(rdr)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(data, &args); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	}
	return args, nil
}

func contentText(result *schema.CallToolResult) string {
	texts := make([]string, 0, len(result.Content))
	for _, elem := range result.Content {
		texts = append(texts, elem.Text)
	}
	return strings.Join(texts, "\n")
}
