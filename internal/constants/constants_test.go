package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The resource names are derived from the project slug at template
// render time; these checks catch a half-rendered template.
func TestNamesAreFullyRendered(t *testing.T) {
	names := []string{
		ProjectSlug, Namespace, DeploymentName, ServiceName,
		IngressName, PVCName, LabelSelector, ImageName,
		DockerfilePath, ManifestPath,
	}
	for _, name := range names {
		assert.NotEmpty(t, name)
		assert.NotContains(t, name, "{{")
		assert.NotContains(t, name, "}}")
		assert.NotContains(t, name, " ")
	}
}

func TestNamesDeriveFromSlug(t *testing.T) {
	for _, name := range []string{DeploymentName, ServiceName, IngressName, PVCName, ImageName} {
		assert.True(t, strings.HasPrefix(name, ProjectSlug), "%s should start with the project slug", name)
	}
	assert.Equal(t, "app="+DeploymentName, LabelSelector)
}
