package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// maxBodyBytes bounds a command body.
const maxBodyBytes = 16 << 10

var commandSchemas = mustCompileSchemas()

func mustCompileSchemas() map[string]*jsonschema.Schema {
	out, err := compileSchemas(schemaFS)
	if err != nil {
		panic(err)
	}
	return out
}

// compileSchemas compiles every *.schema.json under schemas/, keyed by the
// name before the extension.
func compileSchemas(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	paths, err := fs.Glob(fsys, "schemas/*.schema.json")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(p, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	out := make(map[string]*jsonschema.Schema, len(paths))
	for _, p := range paths {
		s, err := c.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "schemas/"), ".schema.json")
		out[name] = s
	}
	return out, nil
}

// validateCommand checks body against the named schema.
func validateCommand(name string, body []byte) error {
	schema, ok := commandSchemas[name]
	if !ok {
		return fmt.Errorf("no schema %q", name)
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return schema.Validate(v)
}

// decodeCommand reads, validates, and decodes a command body into dst.
// On failure it writes a 400 and returns false.
func decodeCommand(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return false
	}
	if len(body) > maxBodyBytes {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	if err := validateCommand(schema, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}
