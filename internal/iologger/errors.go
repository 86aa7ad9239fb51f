package iologger

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError creates an error for when the log file cannot
// be created or opened.
func CreateLogFileError(path string, err error) error {
	msg := `Unable to create log file

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check that the directory exists and is writable
  2. Or set log destination to 'stderr' or 'stdout'`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("create log file %s: %w", path, err),
	}
}
