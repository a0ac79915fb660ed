package argocd

import (
	"context"
	"fmt"

	"github.com/imamik/argoboot/internal/helm"
	"github.com/imamik/argoboot/internal/k8s"
)

// fieldManager identifies argoboot in server-side apply patches.
const fieldManager = "argoboot"

// InstallOptions configure the Argo CD controller installation.
type InstallOptions struct {
	Namespace string
	Chart     helm.ChartSpec
	Values    helm.Values
}

// DefaultChartSpec is the pinned Argo CD chart.
var DefaultChartSpec = helm.ChartSpec{
	Repository: "https://argoproj.github.io/argo-helm",
	Name:       "argo-cd",
	Version:    "7.7.12",
}

// Install renders the Argo CD chart and applies it with server-side
// apply. Nothing goes through Helm's release machinery, so the install
// is reproducible from manifests alone.
func Install(ctx context.Context, client k8s.Interface, opts InstallOptions) error {
	if opts.Namespace == "" {
		opts.Namespace = "argocd"
	}
	if opts.Chart.Name == "" {
		opts.Chart = DefaultChartSpec
	}

	namespaceYAML := helm.NamespaceManifest(opts.Namespace, map[string]string{"name": opts.Namespace})
	if err := client.ApplyManifests(ctx, []byte(namespaceYAML), fieldManager); err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", opts.Namespace, err)
	}

	values := helm.Merge(defaultValues(), opts.Values)

	manifests, err := helm.RenderFromSpec(ctx, opts.Chart, opts.Namespace, values)
	if err != nil {
		return fmt.Errorf("failed to render argo-cd chart: %w", err)
	}

	if err := client.ApplyManifests(ctx, manifests, fieldManager); err != nil {
		return fmt.Errorf("failed to apply argo-cd manifests: %w", err)
	}

	return nil
}

// defaultValues tunes the chart for a single-node local cluster: CRDs
// installed and kept, no HA, no SSO, no notifications.
func defaultValues() helm.Values {
	return helm.Values{
		"crds": helm.Values{
			"install": true,
			"keep":    true,
		},
		// See https://github.com/argoproj/argo-helm/issues/3057
		"redisSecretInit": helm.Values{
			"enabled": false,
		},
		"controller": helm.Values{
			"replicas": 1,
		},
		"server": helm.Values{
			"replicas": 1,
		},
		"repoServer": helm.Values{
			"replicas": 1,
		},
		"redis": helm.Values{
			"enabled": true,
		},
		"redis-ha": helm.Values{
			"enabled": false,
		},
		"dex": helm.Values{
			"enabled": false,
		},
		"applicationSet": helm.Values{
			"enabled": true,
		},
		"notifications": helm.Values{
			"enabled": false,
		},
	}
}

// CoreDeployments lists the deployments whose availability marks the
// controller as ready. The application controller itself is a
// StatefulSet in the chart and converges after these.
func CoreDeployments(releaseName string) []string {
	if releaseName == "" {
		releaseName = "argo-cd"
	}
	return []string{
		releaseName + "-argocd-server",
		releaseName + "-argocd-repo-server",
		releaseName + "-argocd-redis",
	}
}
