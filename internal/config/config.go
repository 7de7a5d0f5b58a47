package config

import "github.com/caarlos0/env/v11"

// Flag is a tolerant boolean environment value: the literal "true"
// enables it and anything else, garbage included, leaves it off.
// Loading never fails on an unparseable flag.
type Flag bool

func (f *Flag) UnmarshalText(text []byte) error {
	*f = Flag(string(text) == "true")
	return nil
}

// Config holds all environment-derived settings. The tooling is
// configured exclusively through environment variables; there is no
// config file.
type Config struct {
	// Registry is the registry host images are tagged with and pushed to.
	Registry string `env:"DOCKER_REGISTRY" envDefault:"your-registry"`

	// SkipPush builds and tags the image without pushing it.
	SkipPush Flag `env:"SKIP_PUSH" envDefault:"false"`

	// LogLevel is a zerolog level name.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// KubeconfigHost optionally points at a kubeconfig to copy into the
	// container during mount setup.
	KubeconfigHost string `env:"KUBECONFIG_HOST"`

	// Workspace is the project checkout path inside the container.
	Workspace string `env:"WORKSPACE" envDefault:"/workspaces/charon"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
