// Package labels provides consistent labeling for resources created by a
// blueprint, in Hetzner Cloud and in the cluster alike.
//
// Standard label keys use the blueprints.io domain prefix for namespacing.
package labels
