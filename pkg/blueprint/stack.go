package blueprint

import "maps"

// ContextNetwork is the App context key selecting the network of a
// blueprint when no network provider is registered. The value "default"
// selects the account's default network; any other value names a network.
const ContextNetwork = "network"

// DefaultNetworkMarker is the ContextNetwork value selecting the default network.
const DefaultNetworkMarker = "default"

// UsageTag is attached to every stack so provisioned resources can be traced
// back to the blueprint engine.
const UsageTag = "blueprints.io/usage"

// App is the root provisioning scope shared by every blueprint built into it.
// It carries context values (for example the network selection) and the
// backends the engine falls back to when a blueprint does not register its
// own providers.
type App struct {
	contextValues  map[string]string
	networkBackend NetworkBackend
	observer       Observer
}

// AppOption configures an App.
type AppOption func(*App)

// WithContext sets a context value on the app.
func WithContext(key, value string) AppOption {
	return func(a *App) {
		a.contextValues[key] = value
	}
}

// WithNetworkBackend sets the backend used to look up or create networks
// when no network provider is registered.
func WithNetworkBackend(backend NetworkBackend) AppOption {
	return func(a *App) {
		a.networkBackend = backend
	}
}

// WithAppObserver sets the default observer for blueprints built in the app.
func WithAppObserver(observer Observer) AppOption {
	return func(a *App) {
		a.observer = observer
	}
}

// NewApp creates a new app scope.
func NewApp(opts ...AppOption) *App {
	a := &App{
		contextValues: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TryGetContext returns a context value and whether it was set.
func (a *App) TryGetContext(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.contextValues[key]
	return v, ok
}

// SetContext sets a context value.
func (a *App) SetContext(key, value string) {
	a.contextValues[key] = value
}

// NetworkBackend returns the configured network backend, or nil.
func (a *App) NetworkBackend() NetworkBackend {
	if a == nil {
		return nil
	}
	return a.networkBackend
}

// Stack is the provisioning scope of a single blueprint.
type Stack struct {
	ID          string
	Name        string
	Account     string
	Region      string
	Description string
	Tags        map[string]string

	app *App
}

// App returns the app the stack belongs to.
func (s *Stack) App() *App {
	return s.app
}

// Labels returns the stack tags merged with the identifying labels every
// resource created for the stack should carry.
func (s *Stack) Labels() map[string]string {
	labels := maps.Clone(s.Tags)
	if labels == nil {
		labels = make(map[string]string)
	}
	labels["blueprint"] = s.ID
	return labels
}
