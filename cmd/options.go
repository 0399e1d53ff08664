package cmd

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"c" long:"config" description:"service configuration YAML path or URL"`

	Serve       *ServeCmd       `command:"serve"        description:"Start MCP server exposing built-in and created tools"`
	ListTools   *ListToolsCmd   `command:"list-tools"   description:"List all available tools"`
	Tool        *ToolCmd        `command:"tool"         description:"Show detailed info about one tool"`
	Exec        *ExecCmd        `command:"exec"         description:"Call a tool"`
	CreateTool  *CreateToolCmd  `command:"create-tool"  description:"Create a remote tool from a source file"`
	Run         *RunCmd         `command:"run"          description:"Run a workflow"`
	ListActions *ListActionsCmd `command:"list-actions" description:"List workflow services and their actions"`
	Action      *ActionCmd      `command:"action"       description:"Show detailed info about one workflow action"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "list-tools":
		o.ListTools = &ListToolsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "create-tool":
		o.CreateTool = &CreateToolCmd{}
	case "run":
		o.Run = &RunCmd{}
	case "list-actions":
		o.ListActions = &ListActionsCmd{}
	case "action":
		o.Action = &ActionCmd{}
	}
}
