// Package retry provides fixed-interval polling for operations that fail transiently.
//
// The [Poll] function repeats an operation until it succeeds or fails with an error
// that was not marked [Retryable]. Waits between attempts have a constant length,
// and optional guards bound the number of attempts or the total elapsed time.
// It drives the provisioning loop that waits out provider capacity shortages.
package retry
