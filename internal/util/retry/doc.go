// Package retry retries transient failures of cloud API calls.
//
// [Do] runs an operation under a [Policy]: a number of attempts with
// exponentially growing delays. Errors wrapped with [Fatal] stop the loop
// immediately. Hetzner Cloud and object storage calls made while resolving
// blueprint resources go through it.
package retry
