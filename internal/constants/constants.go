package constants

import "os"

// ProjectSlug is the name every cluster resource is derived from.
const ProjectSlug = "charon"

// Kubernetes resource names
const (
	// Namespace is the cluster namespace all dev resources live in.
	Namespace = "dev"

	// DeploymentName is the name of the dev container deployment.
	DeploymentName = ProjectSlug + "-dev"

	// ServiceName is the name of the dev container service.
	ServiceName = ProjectSlug + "-dev-service"

	// IngressName is the name of the dev container ingress.
	IngressName = ProjectSlug + "-dev-ingress"

	// PVCName is the name of the workspace persistent volume claim.
	PVCName = ProjectSlug + "-dev-workspace"

	// LabelSelector matches every resource belonging to the dev environment.
	LabelSelector = "app=" + DeploymentName
)

// Secret names
const (
	KubeconfigSecret = "kube-config"
	SSHKeysSecret    = "ssh-keys"
	GitConfigSecret  = "git-config"
)

// Image-related constants
const (
	// ImageName is the local tag of the dev container image.
	ImageName = ProjectSlug + "-dev:latest"

	// DefaultRegistry is the placeholder registry used when
	// DOCKER_REGISTRY is unset.
	DefaultRegistry = "your-registry"
)

// Project layout markers
const (
	// DockerfilePath is used as the project-root marker.
	DockerfilePath = ".devcontainer/Dockerfile"

	// ManifestPath is the deployment manifest applied by deploy.
	ManifestPath = ".devcontainer/dev-deployment.yaml"
)

// ForwardedPorts are forwarded 1:1 from the host into the dev pod.
var ForwardedPorts = []string{"8080", "8000", "3000"}

// File permissions
const (
	// DirPermissions is the default permission mode for directories.
	DirPermissions os.FileMode = 0755

	// PrivateDirPermissions is the mode for directories holding key material.
	PrivateDirPermissions os.FileMode = 0700

	// FilePermissions is the default permission mode for copied files.
	FilePermissions os.FileMode = 0644

	// PrivateFilePermissions is the mode for credential files.
	PrivateFilePermissions os.FileMode = 0600
)
