// Package image builds and publishes the dev container image with the
// docker CLI.
package image

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/execx"
)

// Builder builds, tags and optionally pushes the dev container image.
type Builder struct {
	run      execx.Runner
	registry string
	skipPush bool
}

// NewBuilder creates a builder pushing to the given registry. When
// skipPush is set the image is built and tagged but never pushed.
func NewBuilder(r execx.Runner, registry string, skipPush bool) *Builder {
	return &Builder{run: r, registry: registry, skipPush: skipPush}
}

// RegistryTag returns the fully qualified tag the image is pushed as.
func (b *Builder) RegistryTag() string {
	return b.registry + "/" + constants.ImageName
}

// Build builds the image from the devcontainer Dockerfile, tags it with
// the registry prefix, and pushes it unless pushing is skipped.
func (b *Builder) Build(ctx context.Context) error {
	log.Info().Msg("building dev container image")
	if err := b.run.Run(ctx, "docker", "build",
		"-f", constants.DockerfilePath,
		"-t", constants.ImageName,
		".",
	); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}

	log.Info().Str("tag", b.RegistryTag()).Msg("tagging image")
	if err := b.run.Run(ctx, "docker", "tag", constants.ImageName, b.RegistryTag()); err != nil {
		return fmt.Errorf("image tag failed: %w", err)
	}

	if b.skipPush {
		log.Info().Msg("dev container image built (push skipped)")
		return nil
	}

	log.Info().Msg("pushing image to registry")
	if err := b.run.Run(ctx, "docker", "push", b.RegistryTag()); err != nil {
		return fmt.Errorf("image push failed: %w", err)
	}
	log.Info().Msg("dev container image built and pushed")
	return nil
}
