package mcp

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/riza-io/riza-mcp/internal/syncmap"
	"github.com/riza-io/riza-mcp/internal/telemetry"
	"github.com/riza-io/riza-mcp/mcp/agent"
	"github.com/riza-io/riza-mcp/mcp/config"
	"github.com/riza-io/riza-mcp/mcp/registry"
	"github.com/riza-io/riza-mcp/riza"
	"github.com/riza-io/riza-mcp/weather"
	"github.com/viant/fluxor"
	"github.com/viant/fluxor/model/types"
	"github.com/viant/jsonrpc/transport"
)

// RemoteClient is the subset of the Riza API the service depends on.
type RemoteClient interface {
	CreateTool(ctx context.Context, params *riza.CreateToolParams) (*riza.Tool, error)
	GetTool(ctx context.Context, id string) (*riza.Tool, error)
	UpdateTool(ctx context.Context, id string, params *riza.UpdateToolParams) (*riza.Tool, error)
	ExecuteTool(ctx context.Context, id string, params *riza.ExecuteToolParams) (*riza.ExecuteToolResult, error)
	ExecuteCode(ctx context.Context, params *riza.ExecuteCodeParams) (*riza.ExecuteCodeResult, error)
}

// WeatherClient backs the get_weather tool.
type WeatherClient interface {
	Current(ctx context.Context, city string) (weather.Report, error)
	Forecast(ctx context.Context, city string) (weather.Report, error)
}

// Service bundles configuration, the remote client, the tool registry and a
// Fluxor workflow engine. The bootstrap sequence lives in bootstrap.go.
type Service struct {
	Workflow
	started  int32
	config   *config.Config
	logger   *slog.Logger
	observer *telemetry.Observer

	remote   RemoteClient
	weather  WeatherClient
	registry *registry.Registry
	agents   *agent.Store

	builtins         []*builtin
	creationDisabled atomic.Bool

	// live MCP connections notified when the tool list changes
	notifiers *syncmap.Map[transport.Notifier]
}

type Workflow struct {
	Options    []fluxor.Option
	Runtime    *fluxor.Runtime
	Service    *fluxor.Service
	Extensions []types.Service
}

// WorkflowRuntime returns the underlying Fluxor runtime.
func (s *Service) WorkflowRuntime() *fluxor.Runtime { return s.Workflow.Runtime }

// WorkflowService returns the Fluxor service instance that exposes all actions.
func (s *Service) WorkflowService() *fluxor.Service { return s.Workflow.Service }

// Config returns the effective configuration. Callers must treat it as read-only.
func (s *Service) Config() *config.Config { return s.config }

// Registry returns the remote tool registry.
func (s *Service) Registry() *registry.Registry { return s.registry }

func (s *Service) Logger() *slog.Logger { return s.logger }

// ToolCreationDisabled reports whether create_tool is unavailable.
func (s *Service) ToolCreationDisabled() bool { return s.creationDisabled.Load() }

// Option modifies a service instance before it is initialised.
type Option func(*Service)

// WithConfig sets the configuration. When omitted the configuration is
// resolved from the environment.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithObserver overrides the telemetry observer used by default clients.
func WithObserver(observer *telemetry.Observer) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

// WithRemoteClient replaces the Riza client built from configuration.
func WithRemoteClient(remote RemoteClient) Option {
	return func(s *Service) {
		s.remote = remote
	}
}

func WithWeatherClient(client WeatherClient) Option {
	return func(s *Service) {
		s.weather = client
	}
}

// WithRegistry injects the tool registry, for example one shared by tests.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Service) {
		s.registry = r
	}
}

func WithAgentStore(store *agent.Store) Option {
	return func(s *Service) {
		s.agents = store
	}
}

// WithWorkflowOptions appends additional Fluxor options used when the
// workflow engine gets instantiated.
func WithWorkflowOptions(opts ...fluxor.Option) Option {
	return func(s *Service) {
		s.Workflow.Options = append(s.Workflow.Options, opts...)
	}
}

// WithExtensions registers custom Fluxor services available to workflows.
func WithExtensions(ext ...types.Service) Option {
	return func(s *Service) {
		s.Workflow.Extensions = append(s.Workflow.Extensions, ext...)
	}
}

// New constructs a service. A missing mandatory setting fails with a
// *config.ConfigurationError before any other component is created.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	svc := &Service{notifiers: syncmap.New[transport.Notifier]()}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.init(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Start launches the Fluxor runtime. Subsequent calls are ignored.
func (s *Service) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return nil
	}
	return s.Workflow.Runtime.Start(ctx)
}

// Shutdown terminates the Fluxor runtime. Calls after the first have no effect.
func (s *Service) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.started, 1, 2) {
		return nil
	}
	return s.Workflow.Runtime.Shutdown(ctx)
}
