// Package envconfig loads rover domain configurations from YAML or JSON
// files and creates the environments they describe. Configuration
// documents are validated against an embedded JSON schema before they
// are decoded.
package envconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samuelfneumann/roverdomain/environment/roverdomain"
	ts "github.com/samuelfneumann/roverdomain/timestep"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource string

// schemaURL names the embedded schema in error messages
const schemaURL = "roverdomain.schema.json"

var schema = jsonschema.MustCompileString(schemaURL, schemaSource)

// Load reads the configuration stored at path. YAML and JSON files are
// both accepted. If path is empty, the default configuration is
// returned.
//
// Optional fields missing from the file are filled with the same
// defaults as a Config built in code (see roverdomain.Config.Normalize).
// The returned configuration has been validated.
func Load(path string) (roverdomain.Config, error) {
	if strings.TrimSpace(path) == "" {
		c := roverdomain.DefaultConfig()
		c.Normalize()
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return roverdomain.Config{}, fmt.Errorf("load: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return roverdomain.Config{}, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML or JSON configuration document
func Parse(b []byte) (roverdomain.Config, error) {
	if err := validateDocument(b); err != nil {
		return roverdomain.Config{}, &roverdomain.ConfigurationError{
			Op:  "parse",
			Err: err,
		}
	}

	var c roverdomain.Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return roverdomain.Config{}, &roverdomain.ConfigurationError{
			Op:  "parse",
			Err: err,
		}
	}

	c.Normalize()
	if err := c.Validate(); err != nil {
		return roverdomain.Config{}, err
	}
	return c, nil
}

// Write encodes c as YAML
func Write(w io.Writer, c roverdomain.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write: %v", err)
	}
	return enc.Close()
}

// Create is a factory for creating the rover domain described by c. It
// returns the environment as well as its first timestep.
func Create(c roverdomain.Config, opts ...roverdomain.Option) (
	*roverdomain.RoverDomain, ts.TimeStep, error) {
	r, err := roverdomain.New(c, opts...)
	if err != nil {
		return nil, ts.TimeStep{}, err
	}

	step, err := r.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	return r, step, nil
}

// validateDocument checks a YAML or JSON document against the schema.
// The document is converted to its JSON data model first so that YAML
// and JSON files are validated identically.
func validateDocument(b []byte) error {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("empty configuration document")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("configuration is not representable as JSON: %v",
			err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}
