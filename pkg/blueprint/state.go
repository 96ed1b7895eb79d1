package blueprint

// State is the position of a deployment run in its lifecycle.
type State string

// Deployment states, in order. Failed is reachable from every state before
// Complete.
const (
	StateInitializing            State = "Initializing"
	StateNetworkResolved         State = "NetworkResolved"
	StateClusterProvisioned      State = "ClusterProvisioned"
	StateAddOnsDeploying         State = "AddOnsDeploying"
	StateTeamsSettingUp          State = "TeamsSettingUp"
	StateAwaitingAddOnCompletion State = "AwaitingAddOnCompletion"
	StatePostDeploying           State = "PostDeploying"
	StateComplete                State = "Complete"
	StateFailed                  State = "Failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}
