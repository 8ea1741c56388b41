package hcloud

import (
	"encoding/json"
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/capacityhunt/internal/classify"
)

// errorCodePlacement is returned when no host in the location can take the server.
const errorCodePlacement hcloud.ErrorCode = "placement_error"

// RetryableCodes are the API error codes that mean "try again later".
var RetryableCodes = []hcloud.ErrorCode{
	hcloud.ErrorCodeResourceUnavailable, // Server type sold out in the location
	errorCodePlacement,                  // No capacity on any host
	hcloud.ErrorCodeRateLimitExceeded,
}

// Classifier returns the classifier for responses produced by this package.
func Classifier() *classify.CodeClassifier {
	codes := make([]string, 0, len(RetryableCodes))
	for _, code := range RetryableCodes {
		codes = append(codes, string(code))
	}
	return classify.NewCodeClassifier(codes...)
}

// apiError extracts an hcloud API error from err.
func apiError(err error) (hcloud.Error, bool) {
	if err == nil {
		return hcloud.Error{}, false
	}
	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		return hcloudErr, true
	}
	return hcloud.Error{}, false
}

// errorBody renders an API error as a flat {"code","message"} document.
func errorBody(e hcloud.Error) []byte {
	body, _ := json.Marshal(map[string]string{
		"code":    string(e.Code),
		"message": e.Message,
	})
	return body
}
