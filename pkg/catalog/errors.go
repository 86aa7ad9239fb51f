package catalog

import (
	"errors"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// IsDuplicate reports whether err marks an insert that violated the
// (session, site code, variable code) uniqueness constraint. Callers
// treat such inserts as skips, not failures.
func IsDuplicate(err error) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == errcode.CatalogDuplicateError
	}
	return false
}

// IsNotFound reports whether err marks a point query that matched no
// record.
func IsNotFound(err error) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == errcode.CatalogNotFoundError
	}
	return false
}
