package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/event"
)

func TestIsSupported(t *testing.T) {
	require.NoError(t, config.SetDefaults())

	assert.True(t, event.IsSupported(event.Ping))
	assert.True(t, event.IsSupported(event.PullRequest))
	assert.False(t, event.IsSupported(event.Type("invalid")))
	assert.False(t, event.IsSupported(event.Type("")))
}

func TestIsSupported_RestrictedSet(t *testing.T) {
	require.NoError(t, config.SetDefaults())
	config.Global.Events = []string{"push"}

	assert.True(t, event.IsSupported(event.Push))
	assert.False(t, event.IsSupported(event.Ping))
}
