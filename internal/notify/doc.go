// Package notify delivers the single status message sent when the provisioning
// loop reaches a terminal outcome.
//
// Two sinks exist: [Disabled], used when no email credentials are configured, and
// [Email], which sends one plain-text message over an authenticated STARTTLS
// session. [New] picks the variant and validates email credentials eagerly, so a
// bad password is reported before a long retry loop starts.
package notify
