// Package async provides utilities for parallel task execution with
// error collection.
//
// [WaitAll] executes multiple operations concurrently and reports the result
// of every one of them. The blueprint engine uses it to join the pending
// completions of add-ons.
package async
