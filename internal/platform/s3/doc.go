// Package s3 provides a client for Hetzner Object Storage (S3-compatible).
//
// It backs bucket resources declared by a blueprint: buckets are created on
// first use and adopted when they already belong to the account.
package s3
