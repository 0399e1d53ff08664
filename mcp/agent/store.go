// Package agent persists named sets of remote tools ("agents") so a server
// can be restarted with the same tools without creating them again.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// ErrNotFound is returned by Load when no agent file exists.
var ErrNotFound = errors.New("agent not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Agent is the persisted document.
type Agent struct {
	Name      string   `json:"name"`
	RizaTools []string `json:"rizaTools"`
}

// Store saves agents as <baseURL>/<name>.json on any afs supported storage.
type Store struct {
	baseURL string
	fs      afs.Service
}

func NewStore(baseURL string) *Store {
	return &Store{baseURL: baseURL, fs: afs.New()}
}

// ValidateName rejects names that could escape the store location.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid agent name %q: only letters, digits, '_' and '-' are allowed", name)
	}
	return nil
}

// URL returns the location of the named agent.
func (s *Store) URL(name string) string {
	return url.Join(s.baseURL, name+".json")
}

// Save writes agent, replacing an existing file with the same name.
func (s *Store) Save(ctx context.Context, agent *Agent) (string, error) {
	if agent == nil {
		return "", fmt.Errorf("agent was nil")
	}
	if err := ValidateName(agent.Name); err != nil {
		return "", err
	}
	if agent.RizaTools == nil {
		agent.RizaTools = []string{}
	}
	data, err := json.MarshalIndent(agent, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode agent %s: %w", agent.Name, err)
	}
	location := s.URL(agent.Name)
	if err := s.fs.Upload(ctx, location, 0o644, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to save agent %s to %s: %w", agent.Name, location, err)
	}
	return location, nil
}

// Load reads the named agent.
func (s *Store) Load(ctx context.Context, name string) (*Agent, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	location := s.URL(name)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check agent %s: %w", location, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent %s: %w", location, err)
	}
	ret := &Agent{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode agent %s: %w", location, err)
	}
	if ret.Name == "" {
		ret.Name = name
	}
	return ret, nil
}
