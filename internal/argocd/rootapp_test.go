package argocd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestRootApplication(t *testing.T) {
	data, err := RootApplication(
		AppRef{Name: "root", Namespace: "argocd"},
		"https://github.com/acme/platform.git",
		"clusters/local",
		"main",
	)
	require.NoError(t, err)

	var app map[string]any
	require.NoError(t, yaml.Unmarshal(data, &app))

	assert.Equal(t, "Application", app["kind"])

	spec := app["spec"].(map[string]any)
	source := spec["source"].(map[string]any)
	assert.Equal(t, "https://github.com/acme/platform.git", source["repoURL"])
	assert.Equal(t, "clusters/local", source["path"])
	assert.Equal(t, "main", source["targetRevision"])

	syncPolicy := spec["syncPolicy"].(map[string]any)
	automated := syncPolicy["automated"].(map[string]any)
	assert.Equal(t, true, automated["prune"])
}

func TestRootApplicationDefaultRevision(t *testing.T) {
	data, err := RootApplication(AppRef{Name: "root", Namespace: "argocd"}, "https://example.com/repo.git", "apps", "")
	require.NoError(t, err)

	var app map[string]any
	require.NoError(t, yaml.Unmarshal(data, &app))
	spec := app["spec"].(map[string]any)
	source := spec["source"].(map[string]any)
	assert.Equal(t, "HEAD", source["targetRevision"])
}
