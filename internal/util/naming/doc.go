// Package naming provides consistent names for resources created on behalf
// of a blueprint.
//
// Cloud resources are named {blueprint}-{type}; Kubernetes objects created
// for teams and add-ons are named after the team or add-on so they can be
// found again on the next run.
package naming
