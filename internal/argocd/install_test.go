package argocd

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/argoboot/internal/helm"
	"github.com/imamik/argoboot/internal/k8s"
)

func TestInstallFailsFastOnNamespaceError(t *testing.T) {
	client := &k8s.MockClient{
		ApplyManifestsFunc: func(ctx context.Context, manifests []byte, fieldManager string) error {
			return fmt.Errorf("apiserver unreachable")
		},
	}

	err := Install(context.Background(), client, InstallOptions{Namespace: "argocd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace")
	assert.Equal(t, []string{"ApplyManifests"}, client.Calls, "chart must not be rendered if the namespace fails")
}

func TestDefaultValuesOverridable(t *testing.T) {
	merged := helm.Merge(defaultValues(), helm.Values{
		"notifications": helm.Values{"enabled": true},
	})

	notifications, ok := merged["notifications"].(helm.Values)
	require.True(t, ok)
	assert.Equal(t, true, notifications["enabled"])

	crds, ok := merged["crds"].(helm.Values)
	require.True(t, ok)
	assert.Equal(t, true, crds["install"], "untouched defaults survive")
}

func TestCoreDeployments(t *testing.T) {
	assert.Equal(t, []string{
		"argo-cd-argocd-server",
		"argo-cd-argocd-repo-server",
		"argo-cd-argocd-redis",
	}, CoreDeployments(""))

	assert.Contains(t, CoreDeployments("argocd"), "argocd-argocd-server")
}
