// Package tui provides a Bubble Tea progress view for blueprint deployments.
package tui

// PhaseMsg reports that a deployment phase started, completed or failed.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// AddOnStatus is the display state of an add-on.
type AddOnStatus string

const (
	AddOnWaiting      AddOnStatus = "waiting"
	AddOnPending      AddOnStatus = "pending"
	AddOnCompleted    AddOnStatus = "completed"
	AddOnFailed       AddOnStatus = "failed"
	AddOnPostDeployed AddOnStatus = "post-deployed"
)

// AddOnMsg reports a change in an add-on's state.
type AddOnMsg struct {
	Name    string
	Status  AddOnStatus
	Message string
}

// TeamMsg reports a team that is ready.
type TeamMsg struct{ Name string }

// ResourceMsg reports a resolved named resource.
type ResourceMsg struct{ Key string }

// LogMsg carries a free-form log line.
type LogMsg struct{ Line string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// DoneMsg signals that the deployment returned.
type DoneMsg struct{ Err error }
