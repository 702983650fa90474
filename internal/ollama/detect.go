// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ollama

import (
	"fmt"
	"strings"
)

// selectionPreferences orders models by classification benchmark
// performance. Instruction-tuned mid-size models follow numbered lists
// reliably; reasoning models tend to over-think the task.
var selectionPreferences = []string{
	"qwen2.5:32b-instruct",
	"qwen2.5:32b",
	"qwen2.5:14b-instruct",
	"qwen2.5:14b",
	"qwen2.5:7b-instruct",
	"mistral-small:latest",
	"mistral-small",
	"mistral:7b",
	"hermes3:8b",
	"hermes3:latest",
	"llama3.2:3b",
	"llama3.1:8b",
	"phi3:medium",
}

// generationPreferences orders models for long-form synthesis. Practical
// mid-size models first; the 70B entries serve high-end hardware.
var generationPreferences = []string{
	"llama3.1:8b-instruct",
	"llama3.1:8b",
	"gemma2:27b",
	"gemma2:9b",
	"mistral:7b",
	"granite3.1-dense:8b",
	"qwen2.5:7b",
	"llama3.3:70b",
	"llama3.1:70b-instruct",
	"llama3.1:70b",
}

// DetectSelectionModel picks the classification model. An explicit
// preference wins; otherwise the first available entry from the ranked
// list, matching exact names first and then base-name prefixes (so
// "qwen2.5" matches a quantized tag like "qwen2.5:32b-instruct-q4_K_M").
// Reasoning models are excluded from the last-resort pick.
func DetectSelectionModel(preferred string, available []string) (string, error) {
	if preferred != "" {
		return preferred, nil
	}
	if m, ok := matchPreference(selectionPreferences, available); ok {
		return m, nil
	}
	for _, m := range available {
		lower := strings.ToLower(m)
		if !strings.Contains(lower, "r1") && !strings.Contains(lower, "deepseek") {
			return m, nil
		}
	}
	return "", fmt.Errorf("no suitable model available for article selection")
}

// DetectGenerationModel picks the synthesis model. An explicit preference
// wins; otherwise the ranked list, then any available model at all.
func DetectGenerationModel(preferred string, available []string) (string, error) {
	if preferred != "" {
		return preferred, nil
	}
	if m, ok := matchPreference(generationPreferences, available); ok {
		return m, nil
	}
	if len(available) > 0 {
		return available[0], nil
	}
	return "", fmt.Errorf("no models available for answer generation")
}

func matchPreference(preferences, available []string) (string, bool) {
	for _, pref := range preferences {
		for _, a := range available {
			if a == pref {
				return a, true
			}
		}
		base := strings.SplitN(pref, ":", 2)[0]
		for _, a := range available {
			if strings.HasPrefix(a, base) {
				return a, true
			}
		}
	}
	return "", false
}
