package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/riza-io/riza-mcp/internal/logging"
	"github.com/riza-io/riza-mcp/internal/telemetry"
	"github.com/riza-io/riza-mcp/mcp/agent"
	"github.com/riza-io/riza-mcp/mcp/config"
	"github.com/riza-io/riza-mcp/mcp/registry"
	"github.com/riza-io/riza-mcp/mcp/tool"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/riza-io/riza-mcp/weather"
	"github.com/viant/fluxor"
)

// ActionService is the Fluxor service name exposing registered remote tools.
const ActionService = "riza"

// init orchestrates the individual preparation steps once all options have
// been applied.
func (s *Service) init(ctx context.Context) error {
	if err := s.initConfig(); err != nil {
		return err
	}
	s.initDefaults()
	s.initBuiltins()

	if name := s.config.Agents.Load; name != "" {
		if err := s.LoadAgent(ctx, name); err != nil {
			return fmt.Errorf("load agent %s: %w", name, err)
		}
	}
	s.registry.OnChange(s.onRegistryChange)

	s.initWorkflowService()
	return s.Start(ctx)
}

// initConfig resolves configuration from the environment when none was
// supplied and validates mandatory settings.
func (s *Service) initConfig() error {
	if s.config == nil {
		s.config = &config.Config{}
		s.config.ApplyEnv(os.LookupEnv)
	}
	s.config.Init()
	return s.config.Validate()
}

// initDefaults creates collaborators that were not supplied through options.
func (s *Service) initDefaults() {
	cfg := s.config
	if s.logger == nil {
		s.logger = logging.New(logging.ParseLevel(cfg.Logging.Level), logging.Format(cfg.Logging.Format), os.Stderr)
	}
	if s.observer == nil {
		s.observer = telemetry.Default()
	}
	if s.remote == nil {
		s.remote = riza.New(
			riza.WithAPIKey(cfg.Riza.APIKey),
			riza.WithBaseURL(cfg.Riza.BaseURL),
			riza.WithTimeout(cfg.Riza.Timeout),
			riza.WithObserver(s.observer),
		)
	}
	if s.weather == nil {
		s.weather = weather.New(cfg.Weather.APIKey,
			weather.WithBaseURL(cfg.Weather.BaseURL),
			weather.WithDefaultCity(cfg.Weather.DefaultCity),
			weather.WithObserver(s.observer),
		)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.agents == nil {
		s.agents = agent.NewStore(cfg.Agents.URL)
	}
	if cfg.DisableToolCreation {
		s.creationDisabled.Store(true)
	}
}

// initWorkflowService assembles the Fluxor options and instantiates the
// engine. Registered remote tools are exposed as the "riza" action service.
func (s *Service) initWorkflowService() {
	opts := append([]fluxor.Option{}, s.config.Options...)
	if len(s.config.ExtensionTypes) > 0 {
		opts = append(opts, fluxor.WithExtensionTypes(s.config.ExtensionTypes...))
	}

	services := resolveActionServices(s.config.Workflow.Builtins)
	services = append(services, tool.NewProxy(ActionService, s.registry, s))
	services = append(services, s.config.Extensions...)
	services = append(services, s.Workflow.Extensions...)
	opts = append(opts, fluxor.WithExtensionServices(services...))

	// Options passed through WithWorkflowOptions come last so callers can
	// override defaults.
	opts = append(opts, s.Workflow.Options...)

	s.Workflow.Service = fluxor.New(opts...)
	s.Workflow.Runtime = s.Workflow.Service.Runtime()
}
