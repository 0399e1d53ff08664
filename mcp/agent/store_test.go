package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	baseURL := filepath.Join(t.TempDir(), "saved-agents")
	store := NewStore(baseURL)

	location, err := store.Save(ctx, &Agent{Name: "support", RizaTools: []string{"tool_1", "tool_2"}})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(location, "support.json"), location)

	data, err := os.ReadFile(filepath.Join(baseURL, "support.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"support","rizaTools":["tool_1","tool_2"]}`, string(data))

	agent, err := store.Load(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, "support", agent.Name)
	assert.Equal(t, []string{"tool_1", "tool_2"}, agent.RizaTools)
}

func TestStore_SaveEmpty(t *testing.T) {
	baseURL := t.TempDir()
	store := NewStore(baseURL)
	_, err := store.Save(context.Background(), &Agent{Name: "empty"})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(baseURL, "empty.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"empty","rizaTools":[]}`, string(data))
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(t.TempDir())

	_, err := store.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Save(ctx, &Agent{Name: "../escape"})
	assert.Error(t, err)
	_, err = store.Load(ctx, "a/b")
	assert.Error(t, err)
	_, err = store.Save(ctx, nil)
	assert.Error(t, err)
}
