package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallID(t *testing.T) {
	_, ok := CallID(context.Background())
	assert.False(t, ok)

	id, ok := CallID(WithCallID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}
