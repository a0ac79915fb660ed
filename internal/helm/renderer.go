package helm

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// RenderFromSpec downloads a chart at runtime and renders it with the
// provided values, returning the combined multi-document manifest.
func RenderFromSpec(ctx context.Context, spec ChartSpec, namespace string, values Values) ([]byte, error) {
	loadedChart, err := DownloadChart(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart: %w", err)
	}

	manifests, err := renderChart(loadedChart, spec.Name, namespace, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return manifests, nil
}

// RenderFromPath renders a chart from a local filesystem path. Useful
// for charts vendored into the repository and in tests.
func RenderFromPath(chartPath, releaseName, namespace string, values Values) ([]byte, error) {
	loadedChart, err := loadChartFromPath(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	manifests, err := renderChart(loadedChart, releaseName, namespace, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return manifests, nil
}

// renderChart runs the helm engine over the chart with the provided
// values merged onto the chart's defaults.
func renderChart(ch *chart.Chart, releaseName, namespace string, values Values) ([]byte, error) {
	chartDefaults := make(Values)
	if len(ch.Values) > 0 {
		chartDefaults = Values(ch.Values)
	}

	// Deep merge so nested defaults survive partial overrides.
	merged := deepMerge(chartDefaults, values)
	chartValues := chartutil.Values(merged.ToMap())

	releaseOptions := chartutil.ReleaseOptions{
		Name:      releaseName,
		Namespace: namespace,
		IsInstall: true,
	}

	// Templates should target current API versions (policy/v1 etc.).
	capabilities := chartutil.DefaultCapabilities.Copy()
	capabilities.KubeVersion.Version = "v1.31.0"
	capabilities.KubeVersion.Major = "1"
	capabilities.KubeVersion.Minor = "31"

	valuesToRender, err := chartutil.ToRenderValues(ch, chartValues, releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	eng := engine.Engine{
		Strict:   false,
		LintMode: false,
	}

	rendered, err := eng.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	var combined bytes.Buffer
	for name, content := range rendered {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}

		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			continue
		}

		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}

	return combined.Bytes(), nil
}

// NamespaceManifest generates a Namespace YAML manifest.
func NamespaceManifest(name string, labels map[string]string) string {
	manifest := fmt.Sprintf("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: %s\n", name)
	if len(labels) > 0 {
		manifest += "  labels:\n"
		for k, v := range labels {
			manifest += fmt.Sprintf("    %s: %s\n", k, v)
		}
	}
	return manifest
}
