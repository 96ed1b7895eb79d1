package helm

import (
	"bytes"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// Renderer renders Helm charts with provided values.
type Renderer struct {
	releaseName string
	namespace   string
	kubeVersion string
}

// NewRenderer creates a renderer for a release. kubeVersion (for example
// "1.31") sets the capabilities templates see; empty keeps Helm's default.
func NewRenderer(releaseName, namespace, kubeVersion string) *Renderer {
	return &Renderer{
		releaseName: releaseName,
		namespace:   namespace,
		kubeVersion: kubeVersion,
	}
}

// RenderFromPath loads a chart directory or archive and renders it.
func (r *Renderer) RenderFromPath(chartPath string, values Values) ([]byte, error) {
	loadedChart, err := loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	manifests, err := r.renderChart(loadedChart, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart %s: %w", loadedChart.Name(), err)
	}
	return manifests, nil
}

// renderChart renders CRDs and templates into one multi-document stream.
// Templates are emitted in name order so output is stable.
func (r *Renderer) renderChart(ch *chart.Chart, values Values) ([]byte, error) {
	chartDefaults := make(Values)
	if len(ch.Values) > 0 {
		chartDefaults = Values(ch.Values)
	}
	merged := deepMerge(chartDefaults, values)

	releaseOptions := chartutil.ReleaseOptions{
		Name:      r.releaseName,
		Namespace: r.namespace,
		IsInstall: true,
	}

	capabilities, err := r.capabilities()
	if err != nil {
		return nil, err
	}

	valuesToRender, err := chartutil.ToRenderValues(ch, merged.ToMap(), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	rendered, err := engine.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	var combined bytes.Buffer
	write := func(content string) {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return
		}
		if combined.Len() > 0 {
			combined.WriteString("---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}

	for _, crd := range ch.CRDObjects() {
		write(string(crd.File.Data))
	}
	for _, name := range slices.Sorted(maps.Keys(rendered)) {
		if filepath.Base(name) == "NOTES.txt" || strings.HasPrefix(filepath.Base(name), "_") {
			continue
		}
		write(rendered[name])
	}

	return combined.Bytes(), nil
}

func (r *Renderer) capabilities() (*chartutil.Capabilities, error) {
	capabilities := chartutil.DefaultCapabilities.Copy()
	if r.kubeVersion == "" {
		return capabilities, nil
	}
	v, err := semver.NewVersion(r.kubeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid kubernetes version %q: %w", r.kubeVersion, err)
	}
	capabilities.KubeVersion.Version = "v" + v.String()
	capabilities.KubeVersion.Major = fmt.Sprint(v.Major())
	capabilities.KubeVersion.Minor = fmt.Sprint(v.Minor())
	return capabilities, nil
}
