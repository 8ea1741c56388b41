// Package classify decides what a provider response means for the provisioning loop.
//
// Classification uses an allow-list: only responses recognized as transient
// (capacity exhaustion, rate limiting) are [Retryable]. Every other response is
// terminal, split into [Success] for 2xx answers and [TerminalError] otherwise,
// so an unexpected provider error never keeps the loop spinning.
package classify
