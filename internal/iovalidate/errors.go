package iovalidate

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// SchemaLoadError creates an error for an XSD asset that cannot be
// loaded.
func SchemaLoadError(path string, err error) error {
	msg := `Unable to load WaterML XSD schema

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check that the assets directory is configured
  2. Check that it contains wml_1_0_schema.xsd and wml_1_1_schema.xsd`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ValidateSchemaLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("load schema %s: %w", path, err),
	}
}

// PolicyError creates an error for a tolerated-validation policy
// that cannot be read or parsed.
func PolicyError(path string, err error) error {
	msg := `Unable to read validation policy

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check the policy file is valid YAML with a 'tolerated' list
  2. Or unset assets.policy_file to use the built-in policy`

	if path == "" {
		path = "(embedded)"
	}
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ValidatePolicyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("validation policy %s: %w", path, err),
	}
}
