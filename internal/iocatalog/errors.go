package iocatalog

import (
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for a failed catalog database
// connection.
func ConnectionError(cfg *config.CatalogConfig, err error) error {
	msg := `Cannot connect to the catalog database
<em>host:</em> %s, <em>port:</em> %d, <em>user:</em> %s, <em>database:</em> %s

Make sure PostgreSQL is running and the connection settings in the
configuration file are correct.

Learn how to configure the catalog database connection at

https://github.com/CUAHSI-APPS/timeseries-manager#database`

	vars := []any{cfg.Host, cfg.Port, cfg.User, cfg.Database}

	return &gn.Error{
		Code: errcode.CatalogConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("connect catalog: %w", err),
	}
}

// MigrateError creates an error for a failed catalog schema
// migration.
func MigrateError(err error) error {
	msg := `Cannot migrate the catalog database schema

<em>Possible causes:</em>
  - The configured user lacks DDL privileges
  - An older incompatible schema already exists`

	return &gn.Error{
		Code: errcode.CatalogMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("migrate catalog: %w", err),
	}
}

// NotConnectedError creates an error for catalog access before
// Connect.
func NotConnectedError() error {
	msg := `The catalog database is not connected

Call Connect before using the catalog store.`

	return &gn.Error{
		Code: errcode.CatalogNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("catalog store is not connected"),
	}
}

// DuplicateError creates an error for a reference that already exists
// in the session.
func DuplicateError(sessionID, siteCode, variableCode string) error {
	msg := `The time series is already referenced in this session
<em>site:</em> %s, <em>variable:</em> %s

A session keeps at most one reference per site and variable pair.
Remove the existing reference first to replace it.`

	vars := []any{siteCode, variableCode}

	return &gn.Error{
		Code: errcode.CatalogDuplicateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"duplicate reference %s/%s in session %s",
			siteCode, variableCode, sessionID,
		),
	}
}

// QueryError creates an error for a failed catalog query.
func QueryError(op string, err error) error {
	msg := `A catalog database query failed
<em>operation:</em> %s`

	vars := []any{op}

	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s: %w", op, err),
	}
}

// NotFoundError creates an error for a reference that does not exist
// in the session.
func NotFoundError(sessionID, timeseriesID string) error {
	msg := `No such time series reference
<em>session:</em> %s, <em>timeseries:</em> %s`

	vars := []any{sessionID, timeseriesID}

	return &gn.Error{
		Code: errcode.CatalogNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"reference %s not found in session %s",
			timeseriesID, sessionID,
		),
	}
}
