package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/capacityhunt/internal/provider"
)

// LoadRequest reads the provisioning request document.
// Files ending in .yaml or .yml are converted to JSON first; anything else must
// already be valid JSON.
func LoadRequest(path string) (provider.Request, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return provider.Request{}, &Error{Field: "REQUEST_JSON_PATH", Err: fmt.Errorf("failed to read request file: %w", err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return provider.Request{}, &Error{Field: "REQUEST_JSON_PATH", Err: fmt.Errorf("failed to convert yaml request: %w", err)}
		}
	}

	req, err := provider.NewRequest(path, data)
	if err != nil {
		return provider.Request{}, &Error{Field: "REQUEST_JSON_PATH", Err: err}
	}
	return req, nil
}
