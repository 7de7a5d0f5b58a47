// Package lifecycle implements the discrete dev-environment operations
// the CLI dispatches to. Every operation is a short stateless procedure
// over the kubectl and docker wrappers; nothing is retained between
// invocations.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/image"
	"github.com/charonsec/charon/internal/kube"
	"github.com/charonsec/charon/internal/secrets"
)

// Manager composes the image builder, secret provisioner and kubectl
// client into the lifecycle operations.
type Manager struct {
	kube    *kube.Client
	secrets *secrets.Provisioner
	image   *image.Builder
}

// NewManager wires the lifecycle operations together.
func NewManager(k *kube.Client, s *secrets.Provisioner, i *image.Builder) *Manager {
	return &Manager{kube: k, secrets: s, image: i}
}

// Build builds, tags and optionally pushes the dev container image.
func (m *Manager) Build(ctx context.Context) error {
	return m.image.Build(ctx)
}

// EnsureNamespace creates the namespace only when the existence query
// reports absence. The read-then-act pair is not atomic; concurrent
// invocations may race, which the underlying create operation surfaces
// on its own.
func (m *Manager) EnsureNamespace(ctx context.Context) error {
	if m.kube.NamespaceExists(ctx) {
		log.Info().Str("namespace", m.kube.Namespace()).Msg("namespace already exists")
		return nil
	}
	log.Info().Str("namespace", m.kube.Namespace()).Msg("creating namespace")
	return m.kube.CreateNamespace(ctx)
}

// Secrets ensures the namespace exists and provisions all credential
// secrets into it.
func (m *Manager) Secrets(ctx context.Context) error {
	if err := m.EnsureNamespace(ctx); err != nil {
		return err
	}
	return m.secrets.Provision(ctx)
}

// Deploy applies the deployment manifest and waits for readiness. The
// deployment-level available condition is tried first; when that wait
// fails (some resource kinds never report it) the pod-level ready
// condition is waited on instead. Only failure of both waits fails the
// deploy.
func (m *Manager) Deploy(ctx context.Context) error {
	if _, err := os.Stat(constants.ManifestPath); err != nil {
		return fmt.Errorf("no %s found; create one or deploy manually", constants.ManifestPath)
	}

	log.Info().Msg("deploying dev environment")
	if err := m.kube.ApplyFile(ctx, constants.ManifestPath); err != nil {
		return err
	}

	log.Info().Msg("waiting for deployment to be ready")
	if err := m.kube.WaitDeploymentAvailable(ctx, constants.DeploymentName); err != nil {
		if err := m.kube.WaitPodsReady(ctx, constants.LabelSelector); err != nil {
			return fmt.Errorf("dev environment did not become ready: %w", err)
		}
	}

	log.Info().Msg("dev environment deployed")
	return nil
}

// Status writes a read-only report of pods, services and ingress
// matching the dev label. Empty query results are reported as plain
// not-found lines, never as errors.
func (m *Manager) Status(ctx context.Context, out io.Writer) error {
	header := color.New(color.Bold)

	for _, section := range []struct{ kind, label string }{
		{"pods", "pods"},
		{"svc", "services"},
		{"ingress", "ingress"},
	} {
		header.Fprintf(out, "%s\n", strings.ToUpper(section.label[:1])+section.label[1:])
		listing, err := m.kube.Get(ctx, section.kind, constants.LabelSelector)
		if err != nil || strings.TrimSpace(listing) == "" {
			fmt.Fprintf(out, "No %s found with label %s\n", section.label, constants.LabelSelector)
		} else {
			fmt.Fprint(out, listing)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// Logs streams combined logs from all matching containers until
// interrupted.
func (m *Manager) Logs(ctx context.Context) error {
	log.Info().Msg("fetching logs from dev container")
	return m.kube.FollowLogs(ctx, constants.LabelSelector)
}

// Exec opens an interactive shell in the first matching pod.
func (m *Manager) Exec(ctx context.Context) error {
	log.Info().Msg("connecting to dev container")
	pod, err := m.kube.FirstPodName(ctx, constants.LabelSelector)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", constants.DeploymentName, err)
	}
	return m.kube.ExecShell(pod)
}

// PortForward forwards the fixed local ports into the first matching
// pod until interrupted.
func (m *Manager) PortForward(ctx context.Context) error {
	pod, err := m.kube.FirstPodName(ctx, constants.LabelSelector)
	if err != nil {
		return fmt.Errorf("cannot forward to %s: %w", constants.DeploymentName, err)
	}
	log.Info().Strs("ports", constants.ForwardedPorts).Msg("forwarding ports")
	return m.kube.PortForward(ctx, pod, constants.ForwardedPorts)
}

// Cleanup removes the manifest's resources and the credential secrets.
// Deletion is best effort: not-found outcomes and failed deletes are
// logged and swallowed, the command itself always succeeds.
func (m *Manager) Cleanup(ctx context.Context) error {
	log.Warn().Msg("removing dev environment")

	if _, err := os.Stat(constants.ManifestPath); err == nil {
		if err := m.kube.DeleteFile(ctx, constants.ManifestPath); err != nil {
			log.Debug().Err(err).Msg("manifest delete failed")
		}
	}

	err := m.kube.DeleteSecrets(ctx,
		constants.KubeconfigSecret,
		constants.SSHKeysSecret,
		constants.GitConfigSecret,
	)
	if err != nil {
		log.Debug().Err(err).Msg("secret delete failed")
	}

	log.Info().Msg("dev environment removed")
	return nil
}

// All runs build, namespace, secret provisioning and deploy in strict
// order, aborting at the first failure.
func (m *Manager) All(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"build", m.Build},
		{"namespace", m.EnsureNamespace},
		{"secrets", func(ctx context.Context) error { return m.secrets.Provision(ctx) }},
		{"deploy", m.Deploy},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
