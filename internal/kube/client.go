// Package kube wraps the kubectl CLI. All cluster behavior is delegated
// to kubectl; nothing here talks to the API server directly.
package kube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/charonsec/charon/internal/execx"
)

// ReadyTimeout bounds the deploy readiness waits. It is passed to
// kubectl; the process itself enforces no deadline.
const ReadyTimeout = 300 * time.Second

// ErrNoPod is returned when a pod lookup matches nothing.
var ErrNoPod = errors.New("no matching pod found")

// FileMapping names one file inside a rendered secret.
type FileMapping struct {
	Key  string
	Path string
}

// Client runs kubectl commands scoped to a single namespace.
type Client struct {
	run       execx.Runner
	namespace string
}

// NewClient creates a kubectl client for the given namespace.
func NewClient(r execx.Runner, namespace string) *Client {
	return &Client{run: r, namespace: namespace}
}

// Namespace returns the namespace the client is scoped to.
func (c *Client) Namespace() string {
	return c.namespace
}

// NamespaceExists reports whether the namespace is present. A failed
// query counts as absent.
func (c *Client) NamespaceExists(ctx context.Context) bool {
	_, err := c.run.Capture(ctx, "kubectl", "get", "namespace", c.namespace)
	return err == nil
}

// CreateNamespace creates the namespace. The exists-then-create pair is
// not atomic; concurrent invocations may race, which the underlying
// create surfaces as an AlreadyExists error.
func (c *Client) CreateNamespace(ctx context.Context) error {
	return c.run.Run(ctx, "kubectl", "create", "namespace", c.namespace)
}

// ApplyFile applies a manifest file.
func (c *Client) ApplyFile(ctx context.Context, path string) error {
	return c.run.Run(ctx, "kubectl", "apply", "-f", path)
}

// ApplyManifest applies a manifest passed on stdin.
func (c *Client) ApplyManifest(ctx context.Context, manifest string) error {
	return c.run.RunInput(ctx, manifest, "kubectl", "apply", "-f", "-")
}

// RenderSecret produces the declarative manifest of a generic secret
// without touching the cluster (client-side dry run). Applying the
// returned manifest is create-or-replace, making provisioning
// idempotent.
func (c *Client) RenderSecret(ctx context.Context, name string, files []FileMapping) (string, error) {
	args := []string{"create", "secret", "generic", name}
	for _, f := range files {
		args = append(args, fmt.Sprintf("--from-file=%s=%s", f.Key, f.Path))
	}
	args = append(args, "--namespace="+c.namespace, "--dry-run=client", "-o", "yaml")

	res, err := c.run.Capture(ctx, "kubectl", args...)
	if err != nil {
		return "", fmt.Errorf("failed to render secret %s: %w", name, err)
	}
	return res.Stdout, nil
}

// WaitDeploymentAvailable blocks until the deployment reports the
// available condition. Output is captured so a failed wait stays quiet;
// callers fall back to WaitPodsReady.
func (c *Client) WaitDeploymentAvailable(ctx context.Context, name string) error {
	_, err := c.run.Capture(ctx, "kubectl", "wait",
		"--for=condition=available",
		fmt.Sprintf("--timeout=%ds", int(ReadyTimeout.Seconds())),
		"deployment/"+name,
		"-n", c.namespace,
	)
	return err
}

// WaitPodsReady blocks until pods matching the selector report ready.
// Used as the fallback for resource kinds that do not report a
// deployment-level condition.
func (c *Client) WaitPodsReady(ctx context.Context, selector string) error {
	return c.run.Run(ctx, "kubectl", "wait",
		"--for=condition=ready",
		fmt.Sprintf("--timeout=%ds", int(ReadyTimeout.Seconds())),
		"pod",
		"-l", selector,
		"-n", c.namespace,
	)
}

// Get returns the tabular listing of a resource kind filtered by label.
func (c *Client) Get(ctx context.Context, kind, selector string) (string, error) {
	res, err := c.run.Capture(ctx, "kubectl", "get", kind, "-n", c.namespace, "-l", selector)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// FirstPodName resolves the name of the first pod matching the selector.
func (c *Client) FirstPodName(ctx context.Context, selector string) (string, error) {
	res, err := c.run.Capture(ctx, "kubectl", "get", "pods",
		"-n", c.namespace,
		"-l", selector,
		"-o", "jsonpath={.items[0].metadata.name}",
	)
	if err != nil {
		return "", err
	}
	pod := strings.TrimSpace(res.Stdout)
	if pod == "" {
		return "", fmt.Errorf("%w for selector %s", ErrNoPod, selector)
	}
	return pod, nil
}

// FollowLogs streams combined logs from all matching containers until
// interrupted.
func (c *Client) FollowLogs(ctx context.Context, selector string) error {
	return c.run.Run(ctx, "kubectl", "logs",
		"-n", c.namespace,
		"-l", selector,
		"--all-containers=true",
		"--follow",
	)
}

// PortForward forwards each local port to the same port inside the pod,
// blocking until interrupted.
func (c *Client) PortForward(ctx context.Context, pod string, ports []string) error {
	args := []string{"port-forward", "-n", c.namespace, pod}
	for _, p := range ports {
		args = append(args, p+":"+p)
	}
	return c.run.Run(ctx, "kubectl", args...)
}

// DeleteFile deletes the resources of a manifest file, tolerating
// already-absent resources.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	_, err := c.run.Capture(ctx, "kubectl", "delete", "-f", path, "--ignore-not-found=true")
	return err
}

// DeleteSecrets deletes the named secrets, tolerating already-absent
// ones.
func (c *Client) DeleteSecrets(ctx context.Context, names ...string) error {
	args := append([]string{"delete", "secret"}, names...)
	args = append(args, "-n", c.namespace, "--ignore-not-found=true")
	_, err := c.run.Capture(ctx, "kubectl", args...)
	return err
}

// ExecShell replaces the current process with an interactive shell
// inside the pod. This function does not return on success.
func (c *Client) ExecShell(pod string) error {
	kubectlPath, err := exec.LookPath("kubectl")
	if err != nil {
		return fmt.Errorf("kubectl not found in PATH: %w", err)
	}

	flags := "-i"
	if term.IsTerminal(int(os.Stdin.Fd())) {
		flags = "-it"
	}

	argv := []string{"kubectl", "exec", "-n", c.namespace, flags, pod, "--", "bash"}
	return execSyscall(kubectlPath, argv, os.Environ())
}
