package blueprint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("resource not found")

// ConfigurationError reports an invalid blueprint configuration. It is
// raised before any resource is touched.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid blueprint configuration: %s: %s", e.Field, e.Message)
}

// ProvisioningError reports a failure to resolve resources or to create the
// cluster. No add-on has been deployed when it is returned.
type ProvisioningError struct {
	Phase string
	Err   error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s provisioning failed: %v", e.Phase, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// AddOnFailure is the failure of a single add-on.
type AddOnFailure struct {
	AddOn string
	Err   error
}

// AddOnDeploymentError aggregates every add-on that failed, either because
// its Deploy call returned an error or because its pending completion did.
// Failures are in declaration order.
type AddOnDeploymentError struct {
	Failures []AddOnFailure
}

func (e *AddOnDeploymentError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.AddOn, f.Err))
	}
	return fmt.Sprintf("add-on deployment failed: %s", strings.Join(parts, "; "))
}

// Unwrap returns the individual causes.
func (e *AddOnDeploymentError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Failed returns the names of the failed add-ons in declaration order.
func (e *AddOnDeploymentError) Failed() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.AddOn)
	}
	return names
}

// TeamSetupError reports a team whose setup failed.
type TeamSetupError struct {
	Team string
	Err  error
}

func (e *TeamSetupError) Error() string {
	return fmt.Sprintf("team %s setup failed: %v", e.Team, e.Err)
}

func (e *TeamSetupError) Unwrap() error {
	return e.Err
}

// PostDeployError reports a post-deploy hook that failed.
type PostDeployError struct {
	AddOn string
	Err   error
}

func (e *PostDeployError) Error() string {
	return fmt.Sprintf("post-deploy of %s failed: %v", e.AddOn, e.Err)
}

func (e *PostDeployError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup of a resource that was never resolved.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found", e.Key)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResolutionError reports a resource provider that failed.
type ResolutionError struct {
	Key string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve resource %q: %v", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
