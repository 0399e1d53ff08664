package riza

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Language identifies the runtime a tool or code snippet is executed with.
type Language string

const (
	LanguageTypeScript Language = "TYPESCRIPT"
	LanguagePython     Language = "PYTHON"
	LanguageJavaScript Language = "JAVASCRIPT"

	DefaultLanguage = LanguageTypeScript
)

// Languages lists every supported language.
var Languages = []Language{LanguageTypeScript, LanguagePython, LanguageJavaScript}

// ParseLanguage normalises a language name; an empty name yields DefaultLanguage.
func ParseLanguage(name string) (Language, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultLanguage, nil
	}
	candidate := Language(strings.ToUpper(strings.TrimSpace(name)))
	for _, lang := range Languages {
		if lang == candidate {
			return lang, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q, expected one of %v", name, Languages)
}

// Tool is the remote handle of a created tool.
type Tool struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Code        string                 `json:"code,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
	Language    Language               `json:"language,omitempty"`
	RevisionID  string                 `json:"revision_id,omitempty"`
}

// CreateToolParams defines a new remote tool.
type CreateToolParams struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Code        string                 `json:"code"`
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
	Language    Language               `json:"language,omitempty"`
}

// Validate checks fields the remote service always rejects when missing.
func (p *CreateToolParams) Validate() error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Code == "" {
		missing = append(missing, "code")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// UpdateToolParams lists fields to change; nil fields are left untouched.
type UpdateToolParams struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Code        *string                `json:"code,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
	Language    *Language              `json:"language,omitempty"`
}

// HTTPConfig is the outbound HTTP allow-list applied to executed code.
// Credentials are injected by the remote service so tool code never sees them.
type HTTPConfig struct {
	Allow []*HTTPAllow `yaml:"allow,omitempty" json:"allow,omitempty"`
}

// HTTPAllow permits requests to Host, optionally with credentials.
type HTTPAllow struct {
	Host string    `yaml:"host" json:"host"`
	Auth *HTTPAuth `yaml:"auth,omitempty" json:"auth,omitempty"`
}

// HTTPAuth holds exactly one credential kind.
type HTTPAuth struct {
	Bearer *BearerAuth `yaml:"bearer,omitempty" json:"bearer,omitempty"`
	Basic  *BasicAuth  `yaml:"basic,omitempty" json:"basic,omitempty"`
	Query  *QueryAuth  `yaml:"query,omitempty" json:"query,omitempty"`
}

type BearerAuth struct {
	Token string `yaml:"token" json:"token"`
}

type BasicAuth struct {
	UserID   string `yaml:"userId,omitempty" json:"user_id,omitempty"`
	Password string `yaml:"password" json:"password"`
}

type QueryAuth struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Validate checks that each rule names a host and carries at most one credential.
func (c *HTTPConfig) Validate() error {
	if c == nil {
		return nil
	}
	for i, allow := range c.Allow {
		if allow == nil || allow.Host == "" {
			return fmt.Errorf("http.allow[%d]: host was empty", i)
		}
		if allow.Auth == nil {
			continue
		}
		count := 0
		if allow.Auth.Bearer != nil {
			count++
		}
		if allow.Auth.Basic != nil {
			count++
		}
		if allow.Auth.Query != nil {
			count++
		}
		if count > 1 {
			return fmt.Errorf("http.allow[%d] (%s): expected a single auth kind, got %d", i, allow.Host, count)
		}
	}
	return nil
}

// ExecuteToolParams carries the invocation input of a remote tool.
type ExecuteToolParams struct {
	Input interface{}       `json:"input"`
	HTTP  *HTTPConfig       `json:"http,omitempty"`
	Env   map[string]string `json:"env,omitempty"`
}

// Execution reports the process outcome of a remote run.
type Execution struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Duration int64  `json:"duration,omitempty"`
}

// ExecuteToolResult is the outcome of a tool execution.
type ExecuteToolResult struct {
	Execution    Execution       `json:"execution"`
	Output       json.RawMessage `json:"output,omitempty"`
	OutputStatus string          `json:"output_status,omitempty"`
}

// Failed reports whether the tool process exited with a non-zero code.
func (r *ExecuteToolResult) Failed() bool {
	return r.Execution.ExitCode != 0
}

// ExecuteCodeParams describes an ad-hoc script run.
type ExecuteCodeParams struct {
	Code     string            `json:"code"`
	Language Language          `json:"language"`
	HTTP     *HTTPConfig       `json:"http,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
}

// ExecuteCodeResult is the outcome of an ad-hoc script run.
type ExecuteCodeResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

type listToolsResponse struct {
	Tools []*Tool `json:"tools"`
}
