package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeStructured renders v as JSON or YAML.
// It reports false for the text format so the caller can render its own view.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode json: %w", err)
		}
		return true, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode yaml: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// checkbox renders the state of a dropdown checkbox
func checkbox(full, partial bool) string {
	switch {
	case full:
		return "[x]"
	case partial:
		return "[-]"
	default:
		return "[ ]"
	}
}
