package kube

import (
	"context"
	"strings"
	"testing"

	"github.com/charonsec/charon/internal/execx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		m := &execx.MockRunner{Res: execx.Result{Stdout: "NAME   STATUS   AGE\ndev    Active   4d\n"}}
		c := NewClient(m, "dev")
		assert.True(t, c.NamespaceExists(context.Background()))
		require.Len(t, m.Calls, 1)
		assert.Equal(t, "kubectl get namespace dev", m.Calls[0].String())
	})

	t.Run("absent", func(t *testing.T) {
		m := &execx.MockRunner{Err: &execx.CommandError{Name: "kubectl", Code: 1}}
		c := NewClient(m, "dev")
		assert.False(t, c.NamespaceExists(context.Background()))
	})
}

func TestRenderSecret(t *testing.T) {
	m := &execx.MockRunner{Res: execx.Result{Stdout: "apiVersion: v1\nkind: Secret\n"}}
	c := NewClient(m, "dev")

	manifest, err := c.RenderSecret(context.Background(), "ssh-keys", []FileMapping{
		{Key: "id_rsa", Path: "/home/u/.ssh/id_rsa"},
		{Key: "id_rsa.pub", Path: "/home/u/.ssh/id_rsa.pub"},
	})
	require.NoError(t, err)
	assert.Equal(t, "apiVersion: v1\nkind: Secret\n", manifest)

	require.Len(t, m.Calls, 1)
	call := m.Calls[0].String()
	assert.Contains(t, call, "create secret generic ssh-keys")
	assert.Contains(t, call, "--from-file=id_rsa=/home/u/.ssh/id_rsa")
	assert.Contains(t, call, "--from-file=id_rsa.pub=/home/u/.ssh/id_rsa.pub")
	assert.Contains(t, call, "--dry-run=client")
	assert.Contains(t, call, "--namespace=dev")
	// key order must be stable so repeated renders are identical
	assert.Less(t, strings.Index(call, "--from-file=id_rsa="), strings.Index(call, "--from-file=id_rsa.pub="))
}

func TestFirstPodName(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		m := &execx.MockRunner{Res: execx.Result{Stdout: "charon-dev-7f9b\n"}}
		c := NewClient(m, "dev")
		pod, err := c.FirstPodName(context.Background(), "app=charon-dev")
		require.NoError(t, err)
		assert.Equal(t, "charon-dev-7f9b", pod)
	})

	t.Run("empty result", func(t *testing.T) {
		m := &execx.MockRunner{Res: execx.Result{Stdout: ""}}
		c := NewClient(m, "dev")
		_, err := c.FirstPodName(context.Background(), "app=charon-dev")
		require.ErrorIs(t, err, ErrNoPod)
	})
}

func TestWaitCommands(t *testing.T) {
	m := &execx.MockRunner{}
	c := NewClient(m, "dev")

	require.NoError(t, c.WaitDeploymentAvailable(context.Background(), "charon-dev"))
	require.NoError(t, c.WaitPodsReady(context.Background(), "app=charon-dev"))

	require.Len(t, m.Calls, 2)
	assert.Contains(t, m.Calls[0].String(), "--for=condition=available")
	assert.Contains(t, m.Calls[0].String(), "--timeout=300s")
	assert.Contains(t, m.Calls[0].String(), "deployment/charon-dev")
	assert.Contains(t, m.Calls[1].String(), "--for=condition=ready")
	assert.Contains(t, m.Calls[1].String(), "-l app=charon-dev")
}

func TestDeleteSecretsIgnoresNotFound(t *testing.T) {
	m := &execx.MockRunner{}
	c := NewClient(m, "dev")

	require.NoError(t, c.DeleteSecrets(context.Background(), "kube-config", "ssh-keys", "git-config"))
	require.Len(t, m.Calls, 1)
	assert.Equal(t,
		"kubectl delete secret kube-config ssh-keys git-config -n dev --ignore-not-found=true",
		m.Calls[0].String())
}

func TestPortForwardArgs(t *testing.T) {
	m := &execx.MockRunner{}
	c := NewClient(m, "dev")

	require.NoError(t, c.PortForward(context.Background(), "charon-dev-7f9b", []string{"8080", "8000", "3000"}))
	require.Len(t, m.Calls, 1)
	assert.Equal(t,
		"kubectl port-forward -n dev charon-dev-7f9b 8080:8080 8000:8000 3000:3000",
		m.Calls[0].String())
}
