// Package resources implements blueprint resource providers backed by
// Hetzner Cloud: a network backend for the reserved network resource and
// an Object Storage bucket provider for user-defined keys.
package resources
