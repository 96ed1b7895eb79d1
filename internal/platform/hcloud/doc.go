// Package hcloud wraps the Hetzner Cloud API for the resources a blueprint
// provisions before its cluster exists.
//
// Operations are idempotent: [RealClient.EnsureNetwork] returns an existing
// network with the same name instead of failing, and delete operations
// succeed when the resource is already gone. Get-or-create and delete logic
// is shared through the generic [EnsureOperation] and [DeleteOperation]
// types, which retry locked resources with exponential backoff.
package hcloud
