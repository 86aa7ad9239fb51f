// Package iovalidate implements WaterML schema validation against
// the versioned XSD assets. This is an impure I/O package: it reads
// schema and policy files and calls into libxml2.
package iovalidate

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofs"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/lestrrat-go/libxml2"
	"github.com/lestrrat-go/libxml2/xsd"
	"gopkg.in/yaml.v3"
)

// policy is the tolerated-validation configuration. The patterns
// absorb known, harmless schema deviations of live WaterOneFlow
// services; they live in a config file so deployments can track
// service quirks without a rebuild.
type policy struct {
	Tolerated []string `yaml:"tolerated"`
}

// validator implements the pipeline.Validator interface.
type validator struct {
	cfg       *config.AssetsConfig
	tolerated []string

	mu      sync.Mutex
	schemas map[string]*xsd.Schema
}

// New creates a Validator. The tolerated-error policy comes from the
// configured policy file when set, otherwise from the embedded
// default.
func New(cfg *config.AssetsConfig) (pipeline.Validator, error) {
	raw := []byte(iofs.PolicyYAML)
	if cfg.PolicyFile != "" {
		var err error
		raw, err = os.ReadFile(cfg.PolicyFile)
		if err != nil {
			return nil, PolicyError(cfg.PolicyFile, err)
		}
	}

	var p policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, PolicyError(cfg.PolicyFile, err)
	}

	return &validator{
		cfg:       cfg,
		tolerated: p.Tolerated,
		schemas:   make(map[string]*xsd.Schema),
	}, nil
}

// Validate checks an extracted WaterML payload against the XSD of
// its version. Errors matching a tolerated pattern are suppressed; a
// document is valid when no other errors remain. Any failure to load
// the schema or parse the payload means invalid. Never returns an
// error: diagnostics go to the log and the pipeline carries on.
func (v *validator) Validate(payload []byte, version string) bool {
	schema, err := v.schema(version)
	if err != nil {
		slog.Error("Unable to load WaterML schema",
			"version", version, "error", err)
		return false
	}

	doc, err := libxml2.Parse(payload)
	if err != nil {
		slog.Warn("WaterML payload is not well-formed XML", "error", err)
		return false
	}
	defer doc.Free()

	err = schema.Validate(doc)
	if err == nil {
		return true
	}

	sverr, ok := err.(xsd.SchemaValidationError)
	if !ok {
		slog.Warn("Unknown validation error", "error", err)
		return false
	}

	var residual []string
	var suppressed []string
	for _, e := range sverr.Errors() {
		if v.isTolerated(e.Error()) {
			suppressed = append(suppressed, e.Error())
		} else {
			residual = append(residual, e.Error())
		}
	}

	if len(residual) == 0 {
		if len(suppressed) > 0 {
			slog.Debug("WaterML valid after suppressing tolerated errors",
				"suppressed", suppressed)
		}
		return true
	}

	slog.Warn("WaterML failed schema validation",
		"version", version,
		"errors", residual,
		"suppressed", suppressed,
	)
	return false
}

// isTolerated reports whether a validation error matches the
// tolerated-pattern allow-list.
func (v *validator) isTolerated(errText string) bool {
	for _, pattern := range v.tolerated {
		if strings.Contains(errText, pattern) {
			return true
		}
	}
	return false
}

// schema returns the parsed XSD for a version, loading it from the
// assets directory on first use.
func (v *validator) schema(version string) (*xsd.Schema, error) {
	name := config.SchemaFileName(version)

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[name]; ok {
		return s, nil
	}

	path := filepath.Join(v.cfg.Dir, name)
	s, err := xsd.ParseFromFile(path)
	if err != nil {
		return nil, SchemaLoadError(path, err)
	}
	v.schemas[name] = s
	return s, nil
}
