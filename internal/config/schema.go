// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package config

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the settings schema.
const SchemaID = "https://pssh.dev/schemas/config.schema.json"

var compiled = sync.OnceValues(compileSchema)

// GenerateSchema reflects the JSON Schema for the settings file.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Settings{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "pssh settings"
	schema.Description = "Schema for the pssh config.yaml file"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("config").Wrapf(err, "marshal schema")
	}
	return data, nil
}

// ValidateSchema validates YAML settings against the schema. An empty
// document is valid.
func ValidateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.In("config").Code("CONFIG_INVALID").Wrapf(err, "invalid YAML")
	}
	if doc == nil {
		return nil
	}

	sch, err := compiled()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSON(doc)); err != nil {
		return oops.In("config").Code("CONFIG_INVALID").Wrapf(err, "schema validation failed")
	}
	return nil
}

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.In("config").Wrapf(err, "parse schema")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("config.schema.json", doc); err != nil {
		return nil, oops.In("config").Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile("config.schema.json")
	if err != nil {
		return nil, oops.In("config").Wrapf(err, "compile schema")
	}
	return sch, nil
}

// toJSON normalises a decoded YAML document into the types the validator
// understands.
func toJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = toJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toJSON(e)
		}
		return out
	case string, bool, nil, int, int64, float64:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(b, &out); err != nil {
			return val
		}
		return out
	}
}
