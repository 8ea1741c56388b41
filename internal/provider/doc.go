// Package provider defines the boundary between the provisioning loop and a cloud API.
//
// A [Transport] sends one create-instance request and reports the provider's answer as
// a normalized [Response]. [Attempt] performs exactly one such call and turns any
// network-level failure into a [TransportError], which callers treat as fatal.
// Concrete transports live under internal/platform.
package provider
