package blueprint

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/blueprints/internal/util/async"
)

// DefaultCompletionTimeout bounds the join of pending add-on completions.
const DefaultCompletionTimeout = 15 * time.Minute

// BuildOption configures a Blueprint.
type BuildOption func(*Blueprint)

// WithObserver sets the observer receiving logs and events.
func WithObserver(observer Observer) BuildOption {
	return func(bp *Blueprint) {
		bp.observer = observer
	}
}

// WithCompletionTimeout bounds how long Deploy waits for pending add-on
// completions. Zero or negative values keep the default.
func WithCompletionTimeout(d time.Duration) BuildOption {
	return func(bp *Blueprint) {
		if d > 0 {
			bp.completionTimeout = d
		}
	}
}

// WithMetrics enables or disables Prometheus metrics for the blueprint.
func WithMetrics(enabled bool) BuildOption {
	return func(bp *Blueprint) {
		bp.enableMetrics = enabled
	}
}

// WithDescription sets the stack description.
func WithDescription(description string) BuildOption {
	return func(bp *Blueprint) {
		bp.stack.Description = description
	}
}

// WithTags adds tags to the stack. Tags become labels of created resources.
func WithTags(tags map[string]string) BuildOption {
	return func(bp *Blueprint) {
		maps.Copy(bp.stack.Tags, tags)
	}
}

// Blueprint is a validated, frozen blueprint configuration ready to deploy.
type Blueprint struct {
	cfg   Config
	app   *App
	stack *Stack

	observer          Observer
	completionTimeout time.Duration
	enableMetrics     bool
}

// New validates cfg and creates a blueprint in app. The configuration is
// copied; the caller may keep modifying its own slices.
func New(app *App, cfg Config, opts ...BuildOption) (*Blueprint, error) {
	if app == nil {
		app = NewApp()
	}
	cfg = cfg.Copy().withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bp := &Blueprint{
		cfg: cfg,
		app: app,
		stack: &Stack{
			ID:      cfg.ID,
			Name:    cfg.Name,
			Account: cfg.Account,
			Region:  cfg.Region,
			Tags:    map[string]string{UsageTag: "blueprint"},
			app:     app,
		},
		observer:          app.observer,
		completionTimeout: DefaultCompletionTimeout,
		enableMetrics:     true,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.observer == nil {
		bp.observer = NewConsoleObserver()
	}
	return bp, nil
}

// ID returns the blueprint ID.
func (bp *Blueprint) ID() string {
	return bp.cfg.ID
}

// Config returns a copy of the frozen configuration.
func (bp *Blueprint) Config() Config {
	return bp.cfg.Copy()
}

// Stack returns the blueprint's provisioning scope.
func (bp *Blueprint) Stack() *Stack {
	return bp.stack
}

// Deploy runs the blueprint: it resolves resources, provisions the cluster,
// deploys add-ons, sets up teams, waits for pending add-on work and runs
// post-deploy hooks. Every call is an independent run with its own resource
// registry.
//
// The returned Result is never nil. On failure it is returned together with
// the error so callers can see how far the run got.
func (bp *Blueprint) Deploy(ctx context.Context) (*Result, error) {
	start := time.Now()
	r := newRun(bp)

	err := r.execute(ctx)
	if err != nil && len(r.pending) > 0 {
		// Add-on work started before the failure is still joined so its
		// outcome is part of the result.
		r.observer.Printf("[await] waiting for %d add-on(s) started before the failure", len(r.pending))
		if failures := r.join(ctx); len(failures) > 0 {
			err = errors.Join(err, &AddOnDeploymentError{Failures: failures})
		}
	}

	r.result.Duration = time.Since(start)
	if err != nil {
		r.result.FailedIn = r.result.State
		r.result.State = StateFailed
		r.result.Err = err
		bp.recordRun("failed")
		r.observer.Printf("Blueprint %s failed in %s after %v: %v",
			bp.cfg.ID, r.result.FailedIn, r.result.Duration.Round(time.Millisecond), err)
		return r.result, err
	}

	r.result.State = StateComplete
	bp.recordRun("succeeded")
	r.observer.Printf("Blueprint %s deployed in %v", bp.cfg.ID, r.result.Duration.Round(time.Millisecond))
	return r.result, nil
}

type pendingAddOn struct {
	index   int
	name    string
	pending Pending
}

type postDeployStep struct {
	index int
	name  string
	hook  PostDeployer
}

// run holds the state of a single Deploy call.
type run struct {
	bp       *Blueprint
	observer Observer
	result   *Result
	registry *ResourceRegistry

	network *Network
	info    *ClusterInfo

	pending   []pendingAddOn
	postSteps []postDeployStep
}

func newRun(bp *Blueprint) *run {
	runID := uuid.NewString()
	r := &run{
		bp: bp,
		observer: bp.observer.WithFields(map[string]string{
			"blueprint": bp.cfg.ID,
			"run":       runID,
		}),
		result: &Result{
			RunID:       runID,
			BlueprintID: bp.cfg.ID,
			State:       StateInitializing,
			AddOns:      make([]AddOnResult, len(bp.cfg.AddOns)),
		},
		registry: NewResourceRegistry(),
	}
	for i, addOn := range bp.cfg.AddOns {
		r.result.AddOns[i].Name = addOn.Name()
	}
	r.registry.onResolve = func(key string) {
		bp.recordResolution(key)
		r.observer.Event(Event{
			Type:     EventResourceResolved,
			Phase:    "resources",
			Resource: key,
			Message:  "resolved",
		})
	}
	return r
}

type phase struct {
	name string
	// enter is the state while the phase runs, exit the state after it
	// succeeded (unchanged when empty).
	enter State
	exit  State
	fn    func(ctx context.Context) error
}

func (r *run) execute(ctx context.Context) error {
	phases := []phase{
		{name: "validation", enter: StateInitializing, fn: r.validate},
		{name: "network", enter: StateInitializing, exit: StateNetworkResolved, fn: r.resolveNetwork},
		{name: "resources", enter: StateNetworkResolved, fn: r.resolveResources},
		{name: "cluster", enter: StateNetworkResolved, exit: StateClusterProvisioned, fn: r.provisionCluster},
		{name: "addons", enter: StateAddOnsDeploying, fn: r.deployAddOns},
		{name: "teams", enter: StateTeamsSettingUp, fn: r.setupTeams},
		{name: "await", enter: StateAwaitingAddOnCompletion, fn: r.awaitAddOns},
		{name: "postdeploy", enter: StatePostDeploying, fn: r.postDeploy},
	}

	r.observer.Printf("Deploying blueprint %s with %d add-ons and %d teams...",
		r.bp.cfg.ID, len(r.bp.cfg.AddOns), len(r.bp.cfg.Teams))

	for i, p := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.result.State = p.enter
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", p.name, i+1, len(phases))
		r.observer.Event(Event{Type: EventPhaseStarted, Phase: name, Message: "starting"})

		err := p.fn(ctx)
		elapsed := time.Since(phaseStart)
		r.bp.recordPhase(p.name, elapsed.Seconds())
		if err != nil {
			r.observer.Event(Event{Type: EventPhaseFailed, Phase: name, Message: fmt.Sprintf("failed: %v", err)})
			return err
		}

		r.observer.Event(Event{
			Type:    EventPhaseCompleted,
			Phase:   name,
			Message: fmt.Sprintf("completed in %v", elapsed.Round(time.Millisecond)),
		})
		if p.exit != "" {
			r.result.State = p.exit
		}
	}
	return nil
}

func (r *run) resourceContext(ctx context.Context) *ResourceContext {
	return &ResourceContext{
		Context:   ctx,
		Stack:     r.bp.stack,
		Resources: r.registry,
		Observer:  r.observer,
	}
}

func (r *run) validate(_ context.Context) error {
	return r.bp.cfg.Validate()
}

func (r *run) resolveNetwork(ctx context.Context) error {
	for _, p := range r.bp.cfg.ResourceProviders {
		if err := r.registry.Register(p.Key, p.Provider); err != nil {
			return &ProvisioningError{Phase: "resources", Err: err}
		}
	}

	if !r.registry.Has(NetworkResource) {
		backend := r.bp.app.NetworkBackend()
		if backend == nil {
			return &ProvisioningError{
				Phase: "network",
				Err:   errors.New("no network provider registered and no network backend configured"),
			}
		}
		id, _ := r.bp.app.TryGetContext(ContextNetwork)
		if err := r.registry.Register(NetworkResource, NewNetworkProvider(backend, id)); err != nil {
			return &ProvisioningError{Phase: "network", Err: err}
		}
	}

	value, err := r.registry.Resolve(r.resourceContext(ctx), NetworkResource)
	if err != nil {
		return &ProvisioningError{Phase: "network", Err: err}
	}
	network, ok := value.(*Network)
	if !ok {
		return &ProvisioningError{
			Phase: "network",
			Err:   fmt.Errorf("resource %q is %T, not *Network", NetworkResource, value),
		}
	}
	r.network = network
	r.result.Network = network
	return nil
}

func (r *run) resolveResources(ctx context.Context) error {
	if err := r.registry.ResolveAll(r.resourceContext(ctx)); err != nil {
		return &ProvisioningError{Phase: "resources", Err: err}
	}
	return nil
}

func (r *run) provisionCluster(ctx context.Context) error {
	cfg := r.bp.cfg
	r.observer.Printf("[cluster] creating cluster %s (kubernetes %s)", cfg.Name, cfg.Version)

	info, err := cfg.ClusterProvider.CreateCluster(ctx, r.bp.stack, r.network, cfg.Version)
	if err != nil {
		return &ProvisioningError{Phase: "cluster", Err: err}
	}
	if info == nil {
		return &ProvisioningError{Phase: "cluster", Err: errors.New("cluster provider returned no cluster info")}
	}

	if info.Stack == nil {
		info.Stack = r.bp.stack
	}
	if info.Network == nil {
		info.Network = r.network
	}
	info.Resources = r.registry

	cluster := info.Cluster()
	r.info = info
	r.result.Cluster = &cluster
	return nil
}

// deployAddOns deploys every add-on in declared order. A failing Deploy call
// stops the phase; work already started by earlier add-ons is still joined
// so the result reports its outcome.
func (r *run) deployAddOns(ctx context.Context) error {
	for i, addOn := range r.bp.cfg.AddOns {
		name := addOn.Name()
		res := &r.result.AddOns[i]

		if hook, ok := PostDeployHookFor(addOn); ok {
			res.PostDeployable = true
			r.postSteps = append(r.postSteps, postDeployStep{index: i, name: name, hook: hook})
		}

		pending, err := addOn.Deploy(ctx, r.info)
		if err != nil {
			res.Err = err
			r.bp.recordAddOn(name, "failed")
			r.observer.Event(Event{Type: EventAddOnFailed, Phase: "addons", Resource: name, Message: err.Error()})

			// Pending add-ons were all declared before this one.
			failures := r.join(ctx)
			failures = append(failures, AddOnFailure{AddOn: name, Err: err})
			return &AddOnDeploymentError{Failures: failures}
		}

		res.Deployed = true
		if pending != nil {
			res.Async = true
			r.pending = append(r.pending, pendingAddOn{index: i, name: name, pending: pending})
			r.observer.Event(Event{Type: EventAddOnDeployed, Phase: "addons", Resource: name, Message: "deployed, completion pending"})
			continue
		}

		res.Completed = true
		r.bp.recordAddOn(name, "succeeded")
		r.observer.Event(Event{Type: EventAddOnDeployed, Phase: "addons", Resource: name, Message: "deployed"})
	}
	return nil
}

// setupTeams sets up every team in declared order. It does not wait for
// pending add-on completions; when a team fails, Deploy still joins them.
func (r *run) setupTeams(ctx context.Context) error {
	for _, team := range r.bp.cfg.Teams {
		name := team.Name()
		if err := team.Setup(ctx, r.info); err != nil {
			return &TeamSetupError{Team: name, Err: err}
		}
		r.result.Teams = append(r.result.Teams, name)
		r.observer.Event(Event{Type: EventTeamReady, Phase: "teams", Resource: name, Message: "ready"})
	}
	return nil
}

func (r *run) awaitAddOns(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	r.observer.Printf("[await] waiting for %d add-on(s) to complete (timeout %v)", len(r.pending), r.bp.completionTimeout)

	if failures := r.join(ctx); len(failures) > 0 {
		return &AddOnDeploymentError{Failures: failures}
	}
	return nil
}

// join waits for every recorded pending completion, bounded by the
// completion timeout, and records each outcome.
func (r *run) join(ctx context.Context) []AddOnFailure {
	if len(r.pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.bp.completionTimeout)
	defer cancel()

	tasks := make([]async.Task, len(r.pending))
	for i, p := range r.pending {
		tasks[i] = async.Task{
			Name: p.name,
			Func: func(ctx context.Context) error {
				return waitBounded(ctx, p.pending)
			},
		}
	}
	results, _ := async.WaitAll(ctx, tasks)

	var failures []AddOnFailure
	for i, res := range results {
		p := r.pending[i]
		ar := &r.result.AddOns[p.index]
		if res.Err != nil {
			err := res.Err
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("did not complete within %v: %w", r.bp.completionTimeout, err)
			}
			ar.Err = err
			failures = append(failures, AddOnFailure{AddOn: p.name, Err: err})
			r.bp.recordAddOn(p.name, "failed")
			r.observer.Event(Event{Type: EventAddOnFailed, Phase: "await", Resource: p.name, Message: err.Error()})
			continue
		}
		ar.Completed = true
		r.bp.recordAddOn(p.name, "succeeded")
		r.observer.Event(Event{Type: EventAddOnCompleted, Phase: "await", Resource: p.name, Message: "completed"})
	}
	r.pending = nil
	return failures
}

// waitBounded returns when p settles or ctx is done, whichever comes first,
// even if p ignores ctx.
func waitBounded(ctx context.Context, p Pending) error {
	done := make(chan error, 1)
	go func() {
		done <- p.Wait(ctx)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *run) postDeploy(ctx context.Context) error {
	teams := append([]Team(nil), r.bp.cfg.Teams...)
	for _, step := range r.postSteps {
		if err := step.hook.PostDeploy(ctx, r.info, teams); err != nil {
			r.result.AddOns[step.index].Err = err
			return &PostDeployError{AddOn: step.name, Err: err}
		}
		r.result.AddOns[step.index].PostDeployed = true
		r.observer.Event(Event{Type: EventPostDeployed, Phase: "postdeploy", Resource: step.name, Message: "post-deploy complete"})
	}
	return nil
}
