package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/riza-io/riza-mcp/riza"
	"github.com/riza-io/riza-mcp/weather"
	"github.com/viant/afs"
	"github.com/viant/fluxor"
	"github.com/viant/fluxor/model/types"
	"github.com/viant/x"
	"gopkg.in/yaml.v3"

	mcp "github.com/viant/mcp"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvWeatherAPIKey = weather.APIKeyEnv
	EnvRizaAPIKey    = riza.APIKeyEnv
	EnvRizaBaseURL   = "RIZA_BASE_URL"
	EnvLogLevel      = "RIZA_MCP_LOG_LEVEL"
	EnvLogFormat     = "RIZA_MCP_LOG_FORMAT"
	EnvAgentsURL     = "RIZA_MCP_AGENTS_URL"
	EnvAgent         = "RIZA_MCP_AGENT"
)

type Config struct {
	Server              *mcp.ServerOptions `yaml:"server,omitempty" json:"server,omitempty"`
	Riza                *Riza              `yaml:"riza,omitempty" json:"riza,omitempty"`
	Weather             *Weather           `yaml:"weather,omitempty" json:"weather,omitempty"`
	Builtins            []string           `yaml:"builtins,omitempty" json:"builtins,omitempty"`
	DisableToolCreation bool               `yaml:"disableToolCreation,omitempty" json:"disableToolCreation,omitempty"`
	Agents              *Agents            `yaml:"agents,omitempty" json:"agents,omitempty"`
	Workflow            *Workflow          `yaml:"workflow,omitempty" json:"workflow,omitempty"`
	Logging             *Logging           `yaml:"logging,omitempty" json:"logging,omitempty"`

	Options        []fluxor.Option `yaml:"-" json:"-"`
	Extensions     []types.Service `yaml:"-" json:"-"`
	ExtensionTypes []*x.Type       `yaml:"-" json:"-"`
}

// Riza configures the remote code execution client.
type Riza struct {
	APIKey  string            `yaml:"apiKey,omitempty" json:"apiKey,omitempty"`
	BaseURL string            `yaml:"baseURL,omitempty" json:"baseURL,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	HTTP    *riza.HTTPConfig  `yaml:"http,omitempty" json:"http,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

type Weather struct {
	APIKey      string `yaml:"apiKey,omitempty" json:"apiKey,omitempty"`
	BaseURL     string `yaml:"baseURL,omitempty" json:"baseURL,omitempty"`
	DefaultCity string `yaml:"defaultCity,omitempty" json:"defaultCity,omitempty"`
}

// Agents locates saved agents. Load names an agent whose tools are
// registered at startup.
type Agents struct {
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
	Load string `yaml:"load,omitempty" json:"load,omitempty"`
}

// Workflow selects the Fluxor built-in action services exposed to workflows.
type Workflow struct {
	Builtins []string `yaml:"builtins,omitempty" json:"builtins,omitempty"`
}

type Logging struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Load resolves the configuration: an optional YAML document at URL (any afs
// supported scheme), environment overrides, defaults and validation.
func Load(ctx context.Context, URL string) (*Config, error) {
	cfg := &Config{}
	if URL != "" {
		fs := afs.New()
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", URL, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", URL, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.Init()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables; set variables take precedence
// over file values.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	c.ensureSections()
	set := func(key string, dest *string) {
		if value, ok := lookup(key); ok && value != "" {
			*dest = value
		}
	}
	set(EnvWeatherAPIKey, &c.Weather.APIKey)
	set(EnvRizaAPIKey, &c.Riza.APIKey)
	set(EnvRizaBaseURL, &c.Riza.BaseURL)
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvLogFormat, &c.Logging.Format)
	set(EnvAgentsURL, &c.Agents.URL)
	set(EnvAgent, &c.Agents.Load)
}

// Init applies defaults for optional settings.
func (c *Config) Init() {
	c.ensureSections()
	if c.Riza.Timeout <= 0 {
		c.Riza.Timeout = riza.DefaultTimeout
	}
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = weather.DefaultBaseURL
	}
	if c.Weather.DefaultCity == "" {
		c.Weather.DefaultCity = weather.DefaultCity
	}
	if len(c.Builtins) == 0 {
		c.Builtins = []string{"*"}
	}
	if len(c.Workflow.Builtins) == 0 {
		c.Workflow.Builtins = []string{"nop", "printer"}
	}
	if c.Agents.URL == "" {
		c.Agents.URL = DefaultAgentsURL()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate reports every missing mandatory setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Weather == nil || c.Weather.APIKey == "" {
		missing = append(missing, EnvWeatherAPIKey)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Keys: missing}
	}
	if c.Riza != nil {
		if err := c.Riza.HTTP.Validate(); err != nil {
			return fmt.Errorf("invalid riza http config: %w", err)
		}
	}
	return nil
}

func (c *Config) ensureSections() {
	if c.Riza == nil {
		c.Riza = &Riza{}
	}
	if c.Weather == nil {
		c.Weather = &Weather{}
	}
	if c.Agents == nil {
		c.Agents = &Agents{}
	}
	if c.Workflow == nil {
		c.Workflow = &Workflow{}
	}
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
}

// DefaultAgentsURL returns $HOME/riza/saved-agents, or a relative location
// when the home directory is unknown.
func DefaultAgentsURL() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join("riza", "saved-agents")
	}
	return filepath.Join(home, "riza", "saved-agents")
}
