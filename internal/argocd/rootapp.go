package argocd

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// RootApplication builds the root app-of-apps Application manifest.
// Automated sync with pruning is enabled so the controller creates the
// wave Applications on its own; argoboot only watches them converge.
func RootApplication(ref AppRef, repoURL, path, revision string) ([]byte, error) {
	if revision == "" {
		revision = "HEAD"
	}

	app := map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata": map[string]any{
			"name":      ref.Name,
			"namespace": ref.Namespace,
			"finalizers": []string{
				"resources-finalizer.argocd.argoproj.io",
			},
		},
		"spec": map[string]any{
			"project": "default",
			"source": map[string]any{
				"repoURL":        repoURL,
				"path":           path,
				"targetRevision": revision,
			},
			"destination": map[string]any{
				"server":    "https://kubernetes.default.svc",
				"namespace": ref.Namespace,
			},
			"syncPolicy": map[string]any{
				"automated": map[string]any{
					"prune":    true,
					"selfHeal": true,
				},
			},
		},
	}

	data, err := yaml.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal root application: %w", err)
	}
	return data, nil
}
