package catalog

import (
	"context"
)

// Update carries a partial field update for one catalog record. Nil
// pointers leave the stored value untouched.
type Update struct {
	Status        *Status
	StatusDetails *string
	Selected      *bool
	WMLData       []byte
	ReturnType    *string
}

// Repository is the catalog store contract consumed by the pipeline.
// All access is by point queries keyed on (session, timeseries) or
// session-scoped predicates, so concurrent sessions never contend.
type Repository interface {
	// Add inserts a new reference. Inserting a duplicate
	// (session, site code, variable code) returns an error that
	// IsDuplicate reports true for; the caller treats it as a skip.
	Add(ctx context.Context, ref *TimeSeriesReference) error

	// Get returns one reference by identity.
	Get(ctx context.Context, sessionID, timeseriesID string) (*TimeSeriesReference, error)

	// List returns all references of a session.
	List(ctx context.Context, sessionID string) ([]TimeSeriesReference, error)

	// ListSelected returns the selected references of a session.
	ListSelected(ctx context.Context, sessionID string) ([]TimeSeriesReference, error)

	// Update applies a partial update to one reference.
	Update(ctx context.Context, sessionID, timeseriesID string, upd Update) error

	// UpdateSelections toggles the selected flag. With a timeseries id
	// it updates one row; with a search value it updates every row of
	// the session whose site or variable name matches.
	UpdateSelections(ctx context.Context, sessionID, timeseriesID, search string, selected bool) error

	// Remove deletes one reference, or all selected references of the
	// session when timeseriesID is empty.
	Remove(ctx context.Context, sessionID, timeseriesID string) error

	// RemoveSession deletes every reference and pending row of a
	// session.
	RemoveSession(ctx context.Context, sessionID string) error

	// Statuses returns the per-item status of a session.
	Statuses(ctx context.Context, sessionID string) ([]StatusRecord, error)

	// GetWML returns the stored WaterML payload and return type of one
	// reference.
	GetWML(ctx context.Context, sessionID, timeseriesID string) ([]byte, string, error)

	// AddPending records one just-ingested reference under a batch id.
	AddPending(ctx context.Context, p *PendingTimeseries) error

	// TakePending returns the timeseries ids of a pending batch and
	// deletes the batch; a second call for the same batch returns an
	// empty slice.
	TakePending(ctx context.Context, sessionID, reftsID string) ([]string, error)

	// Metadata aggregates the selected rows of a session for deriving
	// default resource metadata.
	Metadata(ctx context.Context, sessionID string) (*ResourceMetadata, error)
}
