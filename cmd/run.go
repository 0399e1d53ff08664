package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// RunCmd runs a workflow whose tasks may call created tools through the
// "riza" action service, e.g. `action: riza:add`.
type RunCmd struct {
	Location   string `short:"l" long:"location" description:"workflow definition path (YAML)" required:"yes"`
	InputFile  string `short:"i" long:"input" description:"JSON file with initial state (stdin if empty)"`
	State      string `short:"s" long:"state" description:"JSON object with initial state"`
	TimeoutSec int    `long:"timeout" description:"seconds to wait for completion" default:"30"`
}

func (c *RunCmd) Execute(_ []string) error {
	initState, err := c.initialState()
	if err != nil {
		return err
	}

	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer func() { _ = svc.Shutdown(ctx) }()

	rt := svc.WorkflowRuntime()
	wf, err := rt.LoadWorkflow(ctx, c.Location)
	if err != nil {
		return fmt.Errorf("load workflow: %w", err)
	}
	process, wait, err := rt.StartProcess(ctx, wf, initState)
	if err != nil {
		return fmt.Errorf("start process: %w", err)
	}
	output, err := wait(ctx, time.Duration(c.TimeoutSec)*time.Second)
	if err != nil {
		return fmt.Errorf("wait for process %s: %w", process.ID, err)
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(data))
	svc.Logger().Info("workflow completed", "process_id", process.ID, "location", c.Location)
	return nil
}

func (c *RunCmd) initialState() (map[string]interface{}, error) {
	state := make(map[string]interface{})
	if c.State != "" {
		if err := json.Unmarshal([]byte(strings.TrimSpace(c.State)), &state); err != nil {
			return nil, fmt.Errorf("decode initial state: %w", err)
		}
		return state, nil
	}
	var reader io.Reader = os.Stdin
	if c.InputFile != "" {
		f, err := os.Open(c.InputFile)
		if err != nil {
			return nil, fmt.Errorf("open input file: %w", err)
		}
		defer f.Close()
		reader = f
	}
	// empty input is allowed
	if data, err := io.ReadAll(reader); err == nil && len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("decode initial state: %w", err)
		}
	}
	return state, nil
}
