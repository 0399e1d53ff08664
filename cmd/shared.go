package cmd

import (
	"context"
	"sync"

	"github.com/riza-io/riza-mcp/mcp"
	"github.com/riza-io/riza-mcp/mcp/config"
)

var (
	cfgPath string

	svcOnce sync.Once
	svcInst *mcp.Service
	svcErr  error
)

// setConfigPath remembers the -c/--config parameter so the service singleton
// can be created lazily by whichever sub-command is executed.
func setConfigPath(p string) { cfgPath = p }

// serviceSingleton resolves configuration and initialises the service once per
// CLI invocation. Missing mandatory settings fail here, before any handler is
// created.
func serviceSingleton() (*mcp.Service, error) {
	svcOnce.Do(func() {
		ctx := context.Background()
		cfg, err := config.Load(ctx, cfgPath)
		if err != nil {
			svcErr = err
			return
		}
		svcInst, svcErr = mcp.New(ctx, mcp.WithConfig(cfg))
	})
	return svcInst, svcErr
}
