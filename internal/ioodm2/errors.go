package ioodm2

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// SeedError creates an error for a failed output database creation.
func SeedError(path string, err error) error {
	msg := `Cannot create the ODM2 output database
<em>path:</em> %s

Make sure the session workspace directory exists and is writable.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ODM2SeedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("seed odm2 database: %w", err),
	}
}

// ConnectionError creates an error for a failed connection to the
// output database.
func ConnectionError(detail string, err error) error {
	msg := `Cannot open the ODM2 output database
<em>detail:</em> %s`

	vars := []any{detail}

	return &gn.Error{
		Code: errcode.ODM2ConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open odm2 database: %w", err),
	}
}

// MissingSiteError creates an error for a series without a site code.
func MissingSiteError() error {
	msg := `The WaterML payload has no site code

A series cannot be loaded without a sampling feature identity.`

	return &gn.Error{
		Code: errcode.ODM2MissingSiteError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("series has no siteCode element"),
	}
}

// MissingVariableError creates an error for a series without a
// variable code.
func MissingVariableError() error {
	msg := `The WaterML payload has no variable code

A series cannot be loaded without a variable identity.`

	return &gn.Error{
		Code: errcode.ODM2MissingVariableError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("series has no variableCode element"),
	}
}

// InsertError creates an error for a failed write to one ODM2 table.
func InsertError(table string, err error) error {
	msg := `Cannot write to the ODM2 output database
<em>table:</em> %s`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.ODM2InsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert into %s: %w", table, err),
	}
}
