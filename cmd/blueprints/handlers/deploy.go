package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/blueprints/internal/ui/tui"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// DeployOptions are the inputs of the deploy command.
type DeployOptions struct {
	File        string
	Network     string
	JSON        bool
	Plain       bool
	MetricsFile string
}

// useTUI reports whether progress is shown in the interactive view.
var useTUI = isInteractiveTTY

// runDeployTUI runs a deployment behind the progress view.
var runDeployTUI = func(ctx context.Context, m tui.Model, obs *tui.Observer, deploy tui.DeployFunc) (*blueprint.Result, error) {
	return tui.RunDeployTUI(ctx, m, obs, deploy)
}

// writeMetrics writes the metrics registry in text exposition format.
var writeMetrics = func(path string) error {
	return prometheus.WriteToTextfile(path, metrics.Registry)
}

// Deploy loads a blueprint file and deploys it.
//
// The run summary is printed whether or not the deployment succeeds, so a
// partial deployment is visible. With JSON set, progress and summary are
// emitted as JSON lines instead. On a terminal, progress is shown in an
// interactive view unless Plain is set.
func Deploy(ctx context.Context, opts DeployOptions) error {
	f, err := loadConfigFile(opts.File)
	if err != nil {
		return err
	}

	var (
		logger   logr.Logger
		observer blueprint.Observer
		progress *tui.Observer
	)
	switch {
	case opts.JSON:
		logger = funcr.NewJSON(func(obj string) {
			fmt.Fprintln(stdout, obj)
		}, funcr.Options{})
		observer = blueprint.NewLogrObserver(logger)
	case !opts.Plain && useTUI():
		progress = tui.NewObserver(64)
		observer = progress
	}

	bp, err := buildBlueprint(f, buildOptions{
		network:  opts.Network,
		observer: observer,
		metrics:  opts.MetricsFile != "",
	})
	if err != nil {
		return err
	}

	var (
		result    *blueprint.Result
		deployErr error
	)
	if progress != nil {
		var addOns []string
		for _, a := range bp.Config().AddOns {
			addOns = append(addOns, a.Name())
		}
		prev := log.Writer()
		log.SetOutput(progress)
		result, deployErr = runDeployTUI(ctx, tui.NewDeployModel(bp.ID(), addOns), progress, bp.Deploy)
		log.SetOutput(prev)
	} else {
		if !opts.JSON {
			log.Printf("Deploying blueprint %s", bp.ID())
		}
		result, deployErr = bp.Deploy(ctx)
	}

	if opts.JSON {
		logSummary(logger, result)
	} else {
		fmt.Fprint(stdout, renderResult(result))
	}

	if opts.MetricsFile != "" {
		if err := writeMetrics(opts.MetricsFile); err != nil {
			log.Printf("Warning: failed to write metrics to %s: %v", opts.MetricsFile, err)
		}
	}

	if deployErr != nil {
		return fmt.Errorf("deployment of %s failed: %w", bp.ID(), deployErr)
	}
	return nil
}

func logSummary(logger logr.Logger, r *blueprint.Result) {
	kv := []any{
		"runID", r.RunID,
		"blueprint", r.BlueprintID,
		"outcome", string(r.Outcome()),
		"state", string(r.State),
		"duration", r.Duration.String(),
		"teams", r.Teams,
	}
	if r.FailedIn != "" {
		kv = append(kv, "failedIn", string(r.FailedIn))
	}
	if failed := r.FailedAddOns(); len(failed) > 0 {
		kv = append(kv, "failedAddOns", failed)
	}
	if r.Err != nil {
		logger.Error(r.Err, "deployment finished", kv...)
		return
	}
	logger.Info("deployment finished", kv...)
}
