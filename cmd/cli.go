package cmd

import (
	"strings"

	"github.com/jessevdk/go-flags"
)

// Run parses args and executes the selected sub-command. It is kept apart from
// the main package so the CLI stays usable from tests.
func Run(args []string) error {
	setConfigPath(extractConfigPath(args))

	opts := &Options{}
	var first string
	if len(args) > 0 {
		first = args[0]
	}
	opts.Init(first)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// extractConfigPath finds the -f/--config option before full parsing so the
// service can be created by whichever sub-command runs.
func extractConfigPath(args []string) string {
	for i, a := range args {
		switch a {
		case "-c", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		default:
			if strings.HasPrefix(a, "--config=") {
				return strings.TrimPrefix(a, "--config=")
			}
		}
	}
	return ""
}
