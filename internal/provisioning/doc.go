// Package provisioning drives the create-instance retry loop.
//
// # Core Types
//
// Runner sends the same request until the classifier reports an outcome other than
// Retryable, then archives and reports the final response exactly once.
// Result describes how a run ended (outcome, final response, attempts, time waited).
// Observer receives structured events for every attempt, wait, and notification.
package provisioning
