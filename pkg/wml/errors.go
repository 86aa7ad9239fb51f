package wml

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// ParseError creates an error for a payload that cannot be parsed as
// XML.
func ParseError(err error) error {
	msg := `Unable to parse response data as XML

<em>Possible causes:</em>
  - The service returned an HTML error page
  - The response was truncated by a network failure`

	if err == nil {
		err = fmt.Errorf("document has no root element")
	}

	return &gn.Error{
		Code: errcode.WMLParseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("parse waterml: %w", err),
	}
}

// ExtractionError creates an error for a response that contains no
// timeSeriesResponse element in the expected namespace.
func ExtractionError(ns string) error {
	msg := `No WaterML time series found in response

<em>Expected namespace:</em> %s

<em>Possible causes:</em>
  - The service returned a SOAP fault instead of data
  - The declared WaterML version does not match the payload`

	vars := []any{ns}

	return &gn.Error{
		Code: errcode.WMLExtractionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no %s element in namespace %s", ResponseTag, ns),
	}
}
