package hcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/capacityhunt/internal/provider"
)

// serverRequest is the accepted request document.
type serverRequest struct {
	Name             string            `json:"name"`
	ServerType       string            `json:"server_type"`
	Image            string            `json:"image"`
	Location         string            `json:"location,omitempty"`
	SSHKeys          []int64           `json:"ssh_keys,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	UserData         string            `json:"user_data,omitempty"`
	StartAfterCreate *bool             `json:"start_after_create,omitempty"`
}

// serverResult is the body reported for a created server.
type serverResult struct {
	Server struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Status     string `json:"status"`
		ServerType string `json:"server_type,omitempty"`
		Location   string `json:"location,omitempty"`
		PublicIPv4 string `json:"public_ipv4,omitempty"`
		PublicIPv6 string `json:"public_ipv6,omitempty"`
	} `json:"server"`
	ActionID int64 `json:"action_id,omitempty"`
}

// ParseServerRequest decodes and validates a request document.
func ParseServerRequest(payload []byte) (hcloud.ServerCreateOpts, error) {
	var req serverRequest
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid server request: %w", err)
	}

	switch {
	case req.Name == "":
		return hcloud.ServerCreateOpts{}, errors.New("invalid server request: name is required")
	case req.ServerType == "":
		return hcloud.ServerCreateOpts{}, errors.New("invalid server request: server_type is required")
	case req.Image == "":
		return hcloud.ServerCreateOpts{}, errors.New("invalid server request: image is required")
	}

	opts := hcloud.ServerCreateOpts{
		Name:             req.Name,
		ServerType:       &hcloud.ServerType{Name: req.ServerType},
		Image:            &hcloud.Image{Name: req.Image},
		Labels:           req.Labels,
		UserData:         req.UserData,
		StartAfterCreate: req.StartAfterCreate,
	}
	if req.Location != "" {
		opts.Location = &hcloud.Location{Name: req.Location}
	}
	for _, id := range req.SSHKeys {
		opts.SSHKeys = append(opts.SSHKeys, &hcloud.SSHKey{ID: id})
	}
	return opts, nil
}

// Send implements provider.Transport by creating one server.
// API errors become responses; only network failures and invalid requests are errors.
func (c *Client) Send(ctx context.Context, payload []byte) (*provider.Response, error) {
	opts, err := ParseServerRequest(payload)
	if err != nil {
		return nil, err
	}

	result, resp, err := c.client.Server.Create(ctx, opts)
	if err != nil {
		apiErr, ok := apiError(err)
		if !ok {
			return nil, err
		}
		return &provider.Response{StatusCode: statusCode(resp), Body: errorBody(apiErr)}, nil
	}

	body, err := json.Marshal(newServerResult(result))
	if err != nil {
		return nil, fmt.Errorf("failed to encode server result: %w", err)
	}

	status := statusCode(resp)
	if status == 0 {
		status = http.StatusCreated
	}
	return &provider.Response{StatusCode: status, Body: body}, nil
}

func newServerResult(result hcloud.ServerCreateResult) serverResult {
	var out serverResult
	if s := result.Server; s != nil {
		out.Server.ID = s.ID
		out.Server.Name = s.Name
		out.Server.Status = string(s.Status)
		if s.ServerType != nil {
			out.Server.ServerType = s.ServerType.Name
		}
		if s.Datacenter != nil && s.Datacenter.Location != nil {
			out.Server.Location = s.Datacenter.Location.Name
		}
		if s.PublicNet.IPv4.IP != nil {
			out.Server.PublicIPv4 = s.PublicNet.IPv4.IP.String()
		}
		if s.PublicNet.IPv6.IP != nil {
			out.Server.PublicIPv6 = s.PublicNet.IPv6.IP.String()
		}
	}
	if result.Action != nil {
		out.ActionID = result.Action.ID
	}
	return out
}

func statusCode(resp *hcloud.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
