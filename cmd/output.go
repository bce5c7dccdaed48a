package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// writeOutput renders v as indented JSON or YAML.
func writeOutput(w io.Writer, v any, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml", "yml":
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return eris.Wrap(err, "encode json")
		}
		var generic any
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return eris.Wrap(err, "decode json as yaml")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "close yaml encoder")
	default:
		return eris.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), eris.Wrap(err, "read stdin")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}
