package iopipeline

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// NotReadyError creates an error for packaging a selection that
// contains unprepared references.
func NotReadyError(timeseriesID string, status catalog.Status) error {
	msg := `A selected time series is not ready for packaging
<em>timeseries:</em> %s, <em>status:</em> %s

Run the prepare step and wait until every selected row reports the
Ready status.`

	vars := []any{timeseriesID, status}

	return &gn.Error{
		Code: errcode.PipelineNotReadyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"timeseries %s has status %s, want %s",
			timeseriesID, status, catalog.StatusReady,
		),
	}
}

// MetadataError creates an error for a session whose selection cannot
// produce default resource metadata.
func MetadataError(reason string) error {
	msg := `Cannot derive resource metadata
<em>reason:</em> %s`

	vars := []any{reason}

	return &gn.Error{
		Code: errcode.PipelineMetadataError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("derive metadata: %s", reason),
	}
}
