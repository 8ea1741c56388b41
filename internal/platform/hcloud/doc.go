// Package hcloud creates servers through the Hetzner Cloud API as a provisioning
// transport.
//
// The request document mirrors the API's server create body (name, server_type,
// image, location, ssh_keys, labels, user_data). API errors are normalized into a
// flat {"code","message"} body so that the provisioning loop can classify them;
// capacity and rate-limit codes are listed in [RetryableCodes].
//
// # Example Usage
//
//	client := hcloud.NewClient(token, hcloud.WithTimeout(time.Minute))
//	resp, err := client.Send(ctx, payload)
package hcloud
