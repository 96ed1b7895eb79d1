package blueprint

import "time"

// Outcome summarizes how a run ended.
type Outcome string

// Run outcomes.
const (
	// OutcomeSucceeded means every phase completed.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomePartial means the cluster exists and some add-ons or teams
	// succeeded before the run failed.
	OutcomePartial Outcome = "partial"
	// OutcomeFailed means nothing was deployed onto a cluster.
	OutcomeFailed Outcome = "failed"
)

// AddOnResult is the outcome of a single add-on.
type AddOnResult struct {
	Name string

	// Deployed is true when the Deploy call returned without error.
	Deployed bool

	// Async is true when Deploy returned a pending completion.
	Async bool

	// Completed is true when the add-on (including any pending work)
	// finished successfully.
	Completed bool

	// PostDeployable is true when the add-on has a post-deploy hook, and
	// PostDeployed when the hook ran successfully.
	PostDeployable bool
	PostDeployed   bool

	Err error
}

// Result is the structured report of a deployment run. It is returned
// together with the run's error so partial progress stays visible.
type Result struct {
	RunID       string
	BlueprintID string
	State       State

	// FailedIn is the state the run was in when it failed.
	FailedIn State

	Network *Network
	Cluster *Cluster

	AddOns []AddOnResult
	Teams  []string

	Duration time.Duration
	Err      error
}

// Outcome classifies the run.
func (r *Result) Outcome() Outcome {
	if r.State == StateComplete {
		return OutcomeSucceeded
	}
	if r.Cluster == nil {
		return OutcomeFailed
	}
	for _, a := range r.AddOns {
		if a.Completed {
			return OutcomePartial
		}
	}
	if len(r.Teams) > 0 {
		return OutcomePartial
	}
	return OutcomeFailed
}

// FailedAddOns returns the names of add-ons that failed.
func (r *Result) FailedAddOns() []string {
	var names []string
	for _, a := range r.AddOns {
		if a.Err != nil {
			names = append(names, a.Name)
		}
	}
	return names
}
