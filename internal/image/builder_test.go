package image

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charonsec/charon/internal/execx"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestBuildPushes(t *testing.T) {
	m := &execx.MockRunner{}
	b := NewBuilder(m, "registry.example.com", false)

	require.NoError(t, b.Build(context.Background()))
	require.Len(t, m.Calls, 3)
	assert.Equal(t, "docker build -f .devcontainer/Dockerfile -t charon-dev:latest .", m.Calls[0].String())
	assert.Equal(t, "docker tag charon-dev:latest registry.example.com/charon-dev:latest", m.Calls[1].String())
	assert.Equal(t, "docker push registry.example.com/charon-dev:latest", m.Calls[2].String())
}

func TestBuildSkipPush(t *testing.T) {
	m := &execx.MockRunner{}
	b := NewBuilder(m, "registry.example.com", true)

	require.NoError(t, b.Build(context.Background()))
	require.Len(t, m.Calls, 2)
	for _, c := range m.Calls {
		assert.False(t, strings.HasPrefix(c.String(), "docker push"), "push must be skipped")
	}
}

func TestBuildStopsAtFirstFailure(t *testing.T) {
	m := &execx.MockRunner{RunFn: func(c execx.Call) (execx.Result, error) {
		if c.Args[0] == "build" {
			return execx.Result{}, &execx.CommandError{Name: "docker", Args: c.Args, Code: 1}
		}
		return execx.Result{}, nil
	}}
	b := NewBuilder(m, "registry.example.com", false)

	err := b.Build(context.Background())
	require.Error(t, err)
	assert.Len(t, m.Calls, 1, "tag and push must not run after a failed build")
}
