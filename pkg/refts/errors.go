package refts

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// ParseError creates an error for an uploaded document that is not a
// REFTS file.
func ParseError(err error) error {
	msg := `Unable to read Referenced Time Series document

<em>How to fix:</em>
  1. Check that the file is valid JSON
  2. Check that it contains a 'timeSeriesReferenceFile' object`

	if err == nil {
		err = fmt.Errorf("no timeSeriesReferenceFile object")
	}

	return &gn.Error{
		Code: errcode.ReftsParseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("parse refts: %w", err),
	}
}

// WriteError creates an error for a document that could not be
// written to the session workspace.
func WriteError(path string, err error) error {
	msg := `Unable to write Referenced Time Series document

<em>Path:</em> %s`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ReftsWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("write refts %s: %w", path, err),
	}
}
