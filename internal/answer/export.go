// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// SaveResult writes a result to path. The extension picks the format:
// .json for JSON, anything else YAML.
func SaveResult(path string, r types.Result) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = yaml.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
