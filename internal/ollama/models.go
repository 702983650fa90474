// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ollama is the boundary to the local Ollama server: model
// discovery, per-task model auto-detection, and the classification and
// generation clients used by the pipeline.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// tagsResponse mirrors the /api/tags payload. Older servers populate
// "name", newer ones "model"; normalization happens here so the rest of
// the pipeline only ever sees a plain model name.
type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// ListModels returns the names of the models the server has pulled.
func ListModels(ctx context.Context, cfg types.OllamaConfig) ([]string, error) {
	cfg.ApplyDefaults()
	body, err := httputil.GetBody(ctx, http.DefaultClient, cfg.Host+"/api/tags", "", 0)
	if err != nil {
		return nil, fmt.Errorf("list ollama models: %w", err)
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("list ollama models: decode: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
