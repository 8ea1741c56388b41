// Package config builds the immutable runtime configuration of capacityhunt.
//
// [Load] reads environment variables (optionally seeded from a .env file by
// [LoadDotEnv]) into a [Config] struct once at startup. The struct is then passed
// explicitly to every component; no component reads the environment itself.
// [LoadRequest] reads the provisioning request document that is sent verbatim on
// every attempt.
package config
