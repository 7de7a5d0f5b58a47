// Package secrets uploads local credential material (kubeconfig, SSH
// keys, git identity) as cluster secrets so the dev container can reuse
// the operator's identity.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/kube"
)

// Source describes one credential kind as a (name, files) pair.
type Source struct {
	Kind       string
	SecretName string
	Files      []kube.FileMapping
}

// Provisioner packages local credential files into named secrets.
type Provisioner struct {
	kube *kube.Client
	home string
}

// NewProvisioner creates a provisioner reading from the user's home
// directory.
func NewProvisioner(c *kube.Client) (*Provisioner, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Provisioner{kube: c, home: home}, nil
}

// NewProvisionerWithHome creates a provisioner rooted at an explicit
// home directory. Used by tests.
func NewProvisionerWithHome(c *kube.Client, home string) *Provisioner {
	return &Provisioner{kube: c, home: home}
}

// Provision uploads every credential kind whose local source exists.
// Each secret is rendered as a declarative manifest (client-side dry
// run) and then applied, so re-running converges to the same remote
// state. A missing source logs a skip and never fails the run; only a
// failed render or apply does.
func (p *Provisioner) Provision(ctx context.Context) error {
	log.Info().Msg("creating cluster secrets")

	for _, locate := range []func() (Source, bool){
		p.kubeconfigSource,
		p.sshKeySource,
		p.gitConfigSource,
	} {
		src, ok := locate()
		if !ok {
			log.Warn().Str("secret", src.SecretName).Msgf("no local %s found, skipping", src.Kind)
			continue
		}

		manifest, err := p.kube.RenderSecret(ctx, src.SecretName, src.Files)
		if err != nil {
			return err
		}
		if err := p.kube.ApplyManifest(ctx, manifest); err != nil {
			return fmt.Errorf("failed to apply secret %s: %w", src.SecretName, err)
		}
		log.Info().Str("secret", src.SecretName).Msgf("%s secret created", src.Kind)
	}

	return nil
}

func (p *Provisioner) kubeconfigSource() (Source, bool) {
	path := filepath.Join(p.home, ".kube", "config")
	src := Source{
		Kind:       "kubeconfig",
		SecretName: constants.KubeconfigSecret,
		Files:      []kube.FileMapping{{Key: "config", Path: path}},
	}
	return src, fileExists(path)
}

// sshKeySource picks the first complete key pair from the ordered
// candidate list; later pairs are ignored once one matches.
func (p *Provisioner) sshKeySource() (Source, bool) {
	src := Source{Kind: "SSH keys", SecretName: constants.SSHKeysSecret}

	for _, name := range []string{"id_rsa", "id_ed25519"} {
		private := filepath.Join(p.home, ".ssh", name)
		public := private + ".pub"
		if fileExists(private) && fileExists(public) {
			src.Files = []kube.FileMapping{
				{Key: name, Path: private},
				{Key: name + ".pub", Path: public},
			}
			return src, true
		}
	}
	return src, false
}

func (p *Provisioner) gitConfigSource() (Source, bool) {
	path := filepath.Join(p.home, ".gitconfig")
	src := Source{
		Kind:       "git config",
		SecretName: constants.GitConfigSecret,
		Files:      []kube.FileMapping{{Key: ".gitconfig", Path: path}},
	}
	return src, fileExists(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
