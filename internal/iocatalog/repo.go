package iocatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique
// constraint violation.
const pgUniqueViolation = "23505"

const refColumns = `session_id, timeseries_id, status, status_details,
selected, date_created, begin_date, end_date, value_count, sample_medium,
site_name, site_code, latitude, longitude, variable_name, variable_code,
method_description, method_link, network_name, ref_type, return_type,
service_type, url, cache_uri, wml_data`

// Add inserts a new reference. A (session, site code, variable code)
// duplicate is reported as a typed duplicate error.
func (s *Store) Add(ctx context.Context, ref *catalog.TimeSeriesReference) error {
	if s.pool == nil {
		return NotConnectedError()
	}
	q := fmt.Sprintf(`
INSERT INTO timeseries_catalog (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		refColumns)
	_, err := s.pool.Exec(ctx, q,
		ref.SessionID, ref.TimeseriesID, ref.Status, ref.StatusDetails,
		ref.Selected, ref.DateCreated, ref.BeginDate, ref.EndDate,
		ref.ValueCount, ref.SampleMedium, ref.SiteName, ref.SiteCode,
		ref.Latitude, ref.Longitude, ref.VariableName, ref.VariableCode,
		ref.MethodDescription, ref.MethodLink, ref.NetworkName,
		ref.RefType, ref.ReturnType, ref.ServiceType, ref.URL,
		ref.CacheURI, ref.WMLData,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return DuplicateError(ref.SessionID, ref.SiteCode, ref.VariableCode)
		}
		return QueryError("insert reference", err)
	}
	return nil
}

// Get returns one reference by identity.
func (s *Store) Get(
	ctx context.Context,
	sessionID, timeseriesID string,
) (*catalog.TimeSeriesReference, error) {
	if s.pool == nil {
		return nil, NotConnectedError()
	}
	q := fmt.Sprintf(`
SELECT %s FROM timeseries_catalog
WHERE session_id = $1 AND timeseries_id = $2`,
		refColumns)
	row := s.pool.QueryRow(ctx, q, sessionID, timeseriesID)
	ref, err := scanRef(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundError(sessionID, timeseriesID)
		}
		return nil, QueryError("get reference", err)
	}
	return ref, nil
}

// List returns all references of a session.
func (s *Store) List(
	ctx context.Context,
	sessionID string,
) ([]catalog.TimeSeriesReference, error) {
	return s.list(ctx, sessionID, false)
}

// ListSelected returns the selected references of a session.
func (s *Store) ListSelected(
	ctx context.Context,
	sessionID string,
) ([]catalog.TimeSeriesReference, error) {
	return s.list(ctx, sessionID, true)
}

func (s *Store) list(
	ctx context.Context,
	sessionID string,
	selectedOnly bool,
) ([]catalog.TimeSeriesReference, error) {
	if s.pool == nil {
		return nil, NotConnectedError()
	}
	q := fmt.Sprintf(`
SELECT %s FROM timeseries_catalog
WHERE session_id = $1`, refColumns)
	if selectedOnly {
		q += " AND selected"
	}
	q += " ORDER BY date_created, id"

	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, QueryError("list references", err)
	}
	defer rows.Close()

	var res []catalog.TimeSeriesReference
	for rows.Next() {
		ref, err := scanRef(rows)
		if err != nil {
			return nil, QueryError("scan reference", err)
		}
		res = append(res, *ref)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("list references", err)
	}
	return res, nil
}

// Update applies a partial update to one reference. Nil fields stay
// untouched.
func (s *Store) Update(
	ctx context.Context,
	sessionID, timeseriesID string,
	upd catalog.Update,
) error {
	if s.pool == nil {
		return NotConnectedError()
	}

	set := make([]string, 0, 5)
	args := []any{sessionID, timeseriesID}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.StatusDetails != nil {
		add("status_details", *upd.StatusDetails)
	}
	if upd.Selected != nil {
		add("selected", *upd.Selected)
	}
	if upd.WMLData != nil {
		add("wml_data", upd.WMLData)
	}
	if upd.ReturnType != nil {
		add("return_type", *upd.ReturnType)
	}
	if len(set) == 0 {
		return nil
	}

	q := "UPDATE timeseries_catalog SET " + joinSet(set) +
		" WHERE session_id = $1 AND timeseries_id = $2"
	_, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return QueryError("update reference", err)
	}
	return nil
}

// UpdateSelections toggles the selected flag for one row, for rows
// matching a search value, or for the whole session.
func (s *Store) UpdateSelections(
	ctx context.Context,
	sessionID, timeseriesID, search string,
	selected bool,
) error {
	if s.pool == nil {
		return NotConnectedError()
	}

	var err error
	switch {
	case timeseriesID != "":
		_, err = s.pool.Exec(ctx, `
UPDATE timeseries_catalog SET selected = $3
WHERE session_id = $1 AND timeseries_id = $2`,
			sessionID, timeseriesID, selected)
	case search != "":
		_, err = s.pool.Exec(ctx, `
UPDATE timeseries_catalog SET selected = $3
WHERE session_id = $1
  AND (site_name ILIKE $2 OR site_code ILIKE $2
       OR variable_name ILIKE $2 OR variable_code ILIKE $2)`,
			sessionID, "%"+search+"%", selected)
	default:
		_, err = s.pool.Exec(ctx, `
UPDATE timeseries_catalog SET selected = $2
WHERE session_id = $1`, sessionID, selected)
	}
	if err != nil {
		return QueryError("update selections", err)
	}
	return nil
}

// Remove deletes one reference, or all selected references of the
// session when timeseriesID is empty.
func (s *Store) Remove(ctx context.Context, sessionID, timeseriesID string) error {
	if s.pool == nil {
		return NotConnectedError()
	}
	var err error
	if timeseriesID != "" {
		_, err = s.pool.Exec(ctx, `
DELETE FROM timeseries_catalog
WHERE session_id = $1 AND timeseries_id = $2`,
			sessionID, timeseriesID)
	} else {
		_, err = s.pool.Exec(ctx, `
DELETE FROM timeseries_catalog
WHERE session_id = $1 AND selected`, sessionID)
	}
	if err != nil {
		return QueryError("remove references", err)
	}
	return nil
}

// RemoveSession deletes every reference and pending row of a session.
func (s *Store) RemoveSession(ctx context.Context, sessionID string) error {
	if s.pool == nil {
		return NotConnectedError()
	}
	if _, err := s.pool.Exec(ctx, `
DELETE FROM timeseries_catalog WHERE session_id = $1`, sessionID); err != nil {
		return QueryError("remove session", err)
	}
	if _, err := s.pool.Exec(ctx, `
DELETE FROM pending_timeseries WHERE session_id = $1`, sessionID); err != nil {
		return QueryError("remove session pending", err)
	}
	return nil
}

// Statuses returns the per-item status of a session.
func (s *Store) Statuses(
	ctx context.Context,
	sessionID string,
) ([]catalog.StatusRecord, error) {
	if s.pool == nil {
		return nil, NotConnectedError()
	}
	rows, err := s.pool.Query(ctx, `
SELECT timeseries_id, status, status_details
FROM timeseries_catalog
WHERE session_id = $1
ORDER BY date_created, id`, sessionID)
	if err != nil {
		return nil, QueryError("statuses", err)
	}
	defer rows.Close()

	var res []catalog.StatusRecord
	for rows.Next() {
		var rec catalog.StatusRecord
		if err := rows.Scan(&rec.TimeseriesID, &rec.Status, &rec.StatusDetails); err != nil {
			return nil, QueryError("scan status", err)
		}
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("statuses", err)
	}
	return res, nil
}

// GetWML returns the stored WaterML payload and return type of one
// reference.
func (s *Store) GetWML(
	ctx context.Context,
	sessionID, timeseriesID string,
) ([]byte, string, error) {
	if s.pool == nil {
		return nil, "", NotConnectedError()
	}
	var data []byte
	var returnType string
	err := s.pool.QueryRow(ctx, `
SELECT wml_data, return_type FROM timeseries_catalog
WHERE session_id = $1 AND timeseries_id = $2`,
		sessionID, timeseriesID).Scan(&data, &returnType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", NotFoundError(sessionID, timeseriesID)
		}
		return nil, "", QueryError("get wml data", err)
	}
	return data, returnType, nil
}

// AddPending records one just-ingested reference under a batch id.
func (s *Store) AddPending(ctx context.Context, p *catalog.PendingTimeseries) error {
	if s.pool == nil {
		return NotConnectedError()
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO pending_timeseries (session_id, refts_id, timeseries_id)
VALUES ($1, $2, $3)`, p.SessionID, p.ReftsID, p.TimeseriesID)
	if err != nil {
		return QueryError("insert pending", err)
	}
	return nil
}

// TakePending returns the timeseries ids of a pending batch and
// deletes the batch.
func (s *Store) TakePending(
	ctx context.Context,
	sessionID, reftsID string,
) ([]string, error) {
	if s.pool == nil {
		return nil, NotConnectedError()
	}
	rows, err := s.pool.Query(ctx, `
DELETE FROM pending_timeseries
WHERE session_id = $1 AND refts_id = $2
RETURNING timeseries_id`, sessionID, reftsID)
	if err != nil {
		return nil, QueryError("take pending", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, QueryError("scan pending", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("take pending", err)
	}
	return ids, nil
}

// Metadata aggregates the selected rows of a session for deriving
// default resource metadata.
func (s *Store) Metadata(
	ctx context.Context,
	sessionID string,
) (*catalog.ResourceMetadata, error) {
	refs, err := s.ListSelected(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Aggregate(refs), nil
}

// Aggregate derives resource metadata from a set of references.
// Dates compare lexicographically, which is correct for the ISO-8601
// strings WaterOneFlow services emit.
func Aggregate(refs []catalog.TimeSeriesReference) *catalog.ResourceMetadata {
	res := &catalog.ResourceMetadata{}
	sites := map[string]bool{}
	variables := map[string]bool{}
	mediums := map[string]bool{}
	for _, ref := range refs {
		if ref.Status != catalog.StatusReady {
			res.NotReady++
		}
		if !sites[ref.SiteName] {
			sites[ref.SiteName] = true
			res.SiteNames = append(res.SiteNames, ref.SiteName)
		}
		if !variables[ref.VariableName] {
			variables[ref.VariableName] = true
			res.VariableNames = append(res.VariableNames, ref.VariableName)
		}
		if ref.SampleMedium != "" && !mediums[ref.SampleMedium] {
			mediums[ref.SampleMedium] = true
			res.SampleMediums = append(res.SampleMediums, ref.SampleMedium)
		}
		if ref.BeginDate != "" &&
			(res.BeginDate == "" || ref.BeginDate < res.BeginDate) {
			res.BeginDate = ref.BeginDate
		}
		if ref.EndDate != "" && ref.EndDate > res.EndDate {
			res.EndDate = ref.EndDate
		}
	}
	res.SiteCount = len(res.SiteNames)
	res.VariableCount = len(res.VariableNames)
	return res
}

// scanRef scans one reference row in refColumns order.
func scanRef(row pgx.Row) (*catalog.TimeSeriesReference, error) {
	var ref catalog.TimeSeriesReference
	err := row.Scan(
		&ref.SessionID, &ref.TimeseriesID, &ref.Status, &ref.StatusDetails,
		&ref.Selected, &ref.DateCreated, &ref.BeginDate, &ref.EndDate,
		&ref.ValueCount, &ref.SampleMedium, &ref.SiteName, &ref.SiteCode,
		&ref.Latitude, &ref.Longitude, &ref.VariableName, &ref.VariableCode,
		&ref.MethodDescription, &ref.MethodLink, &ref.NetworkName,
		&ref.RefType, &ref.ReturnType, &ref.ServiceType, &ref.URL,
		&ref.CacheURI, &ref.WMLData,
	)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func joinSet(set []string) string {
	res := set[0]
	for _, s := range set[1:] {
		res += ", " + s
	}
	return res
}
