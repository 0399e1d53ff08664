package mcp

import (
	"sort"

	"github.com/riza-io/riza-mcp/mcp/matcher"
	"github.com/viant/fluxor/model/types"

	nop "github.com/viant/fluxor/service/action/nop"
	printer "github.com/viant/fluxor/service/action/printer"
	exec "github.com/viant/fluxor/service/action/system/exec"
	secret "github.com/viant/fluxor/service/action/system/secret"
	storage "github.com/viant/fluxor/service/action/system/storage"
)

// actionFactories lists the Fluxor action services workflows may combine with
// remote tools. Keys match the service names so patterns stay intuitive.
var actionFactories = map[string]func() types.Service{
	"nop":            func() types.Service { return nop.New() },
	"printer":        func() types.Service { return printer.New() },
	"system/exec":    func() types.Service { return exec.New() },
	"system/storage": func() types.Service { return storage.New() },
	"system/secret":  func() types.Service { return secret.New() },
}

// actionServiceNames returns the names selected by patterns in sorted order.
func actionServiceNames(patterns []string) []string {
	var names []string
	for name := range actionFactories {
		if matcher.MatchAny(patterns, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// resolveActionServices instantiates the action services selected by patterns.
func resolveActionServices(patterns []string) []types.Service {
	names := actionServiceNames(patterns)
	ret := make([]types.Service, 0, len(names))
	for _, name := range names {
		ret = append(ret, actionFactories[name]())
	}
	return ret
}
