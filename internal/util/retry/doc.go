// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. kspray uses it only at the transport
// level, for the SSH dial behind the API tunnel; pipeline steps are never
// retried.
package retry
