// Package oci sends signed create-instance requests to the Oracle Cloud
// Infrastructure Core Services API.
//
// Requests are signed with the OCI HTTP signature scheme using the SDK's
// request signer, keyed by tenancy, user, key fingerprint and private key.
// The response body is returned untouched so the caller can classify it.
package oci
