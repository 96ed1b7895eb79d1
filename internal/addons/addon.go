package addons

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// DefaultPollInterval is used when an add-on does not set one.
const DefaultPollInterval = 5 * time.Second

func clientFor(info *blueprint.ClusterInfo) (k8sclient.Client, error) {
	if info.Client == nil {
		return nil, errors.New("cluster info has no client")
	}
	return k8sclient.New(info.Client), nil
}

// labelsFor starts the labels set on every object of an add-on.
func labelsFor(info *blueprint.ClusterInfo, addOn string) *labels.LabelBuilder {
	blueprintID := ""
	if info.Stack != nil {
		blueprintID = info.Stack.ID
	}
	return labels.NewLabelBuilder(blueprintID).WithAddOn(addOn)
}

// apply creates the namespace, applies manifests and returns a pending
// readiness wait when wait is set.
func apply(ctx context.Context, info *blueprint.ClusterInfo, name, namespace string, manifests []byte, wait bool, poll time.Duration) (blueprint.Pending, error) {
	kc, err := clientFor(info)
	if err != nil {
		return nil, err
	}

	objLabels := labelsFor(info, name).Build()
	if err := kc.EnsureNamespace(ctx, namespace, objLabels); err != nil {
		return nil, err
	}
	refs, err := kc.ApplyManifests(ctx, manifests, namespace, objLabels)
	if err != nil {
		return nil, err
	}
	if !wait {
		return nil, nil
	}

	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return blueprint.PendingFunc(func(ctx context.Context) error {
		return kc.WaitForWorkloads(ctx, refs, poll)
	}), nil
}

// readManifests reads YAML files; directories contribute their *.yaml and
// *.yml files in name order.
func readManifests(paths []string) ([]byte, error) {
	var docs []string
	for _, path := range paths {
		files, err := expand(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read manifest: %w", err)
			}
			docs = append(docs, strings.TrimSpace(string(data)))
		}
	}
	return []byte(strings.Join(docs, "\n---\n") + "\n"), nil
}

func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
