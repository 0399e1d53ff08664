package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/mcp"
)

// ServeCmd launches an MCP server exposing built-in and created tools. The
// server options (port, transport, auth) come from the config file.
type ServeCmd struct{}

func (c *ServeCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	logger := svc.Logger()

	mcpServer, err := mcp.NewServer(svc.NewHandler, svc.Config().Server)
	if err != nil {
		return err
	}

	ctx := context.Background()
	httpSrv := mcpServer.HTTP(ctx, "")
	errs := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	logger.Info("MCP server listening", "addr", httpSrv.Addr, "tools", len(svc.ListTools()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		_ = svc.Shutdown(ctx)
		return err
	case sig := <-sigs:
		logger.Info("shutting down", "signal", sig.String())
	}
	if err := httpSrv.Close(); err != nil {
		return err
	}
	return svc.Shutdown(ctx)
}
