// Package config loads conversion settings.
//
// Settings come from defaults, then an optional file, then CLI flags.
// Files may be YAML, JSON, or CUE; all three are unified with the embedded
// CUE schema before decoding, so a bad policy name fails at load time.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Policy names.
const (
	StatementFail = "fail"
	StatementSkip = "skip"

	CoordinateDropGeometry = "drop-geometry"
	CoordinateFail         = "fail"

	FacetRowsAll   = "all"
	FacetRowsFirst = "first"
)

// DefaultBaseIRI resolves relative identifiers in input documents.
const DefaultBaseIRI = "https://example.com/sample.jsonld"

// Config holds every conversion setting.
type Config struct {
	BaseIRI string `json:"base_iri" yaml:"base_iri"`
	Policy  Policy `json:"policy" yaml:"policy"`
	Output  Output `json:"output" yaml:"output"`
}

// Policy selects how defects are handled.
type Policy struct {
	InvalidStatement  string `json:"invalid_statement" yaml:"invalid_statement"`
	InvalidCoordinate string `json:"invalid_coordinate" yaml:"invalid_coordinate"`
	FacetRows         string `json:"facet_rows" yaml:"facet_rows"`
}

// Output controls the GeoJSON writer.
type Output struct {
	Indent bool `json:"indent" yaml:"indent"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseIRI: DefaultBaseIRI,
		Policy: Policy{
			InvalidStatement:  StatementFail,
			InvalidCoordinate: CoordinateDropGeometry,
			FacetRows:         FacetRowsAll,
		},
	}
}

// Strict makes every defect fatal.
func (c *Config) Strict() {
	c.Policy.InvalidStatement = StatementFail
	c.Policy.InvalidCoordinate = CoordinateFail
}

// Validate checks c against the schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema, err := compileSchema(ctx)
	if err != nil {
		return err
	}
	v := ctx.Encode(c)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return check(schema.Unify(v))
}

// Load reads a config file. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var format string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	case ".cue":
		format = "cue"
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml, .json or .cue)", path, ext)
	}

	cfg, err := Parse(data, format, path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data in the given format ("yaml", "json" or "cue").
// filename is used in error positions only.
func Parse(data []byte, format, filename string) (Config, error) {
	ctx := cuecontext.New()
	schema, err := compileSchema(ctx)
	if err != nil {
		return Config{}, err
	}

	var v cue.Value
	switch format {
	case "yaml":
		// Unknown keys are rejected here so the error names the YAML line.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		var probe Config
		if err := dec.Decode(&probe); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		v = ctx.Encode(raw)
	case "json", "cue":
		v = ctx.CompileBytes(data, cue.Filename(filename))
	default:
		return Config{}, fmt.Errorf("unknown config format %q", format)
	}
	if err := v.Err(); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}

	unified := schema.Unify(v)
	if err := check(unified); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func compileSchema(ctx *cue.Context) (cue.Value, error) {
	root := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile config schema: %w", err)
	}
	return root.LookupPath(cue.ParsePath("#Config")), nil
}

func check(v cue.Value) error {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
