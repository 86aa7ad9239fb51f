// Package pipeline defines the contracts of the WaterML preparation
// pipeline. Implementations live in internal/io packages; the
// interfaces here keep the orchestrator testable with fakes and keep
// all I/O behind injection points.
package pipeline

import (
	"context"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
)

// SOAPRequest describes one GetValuesObject call to a WaterOneFlow
// SOAP endpoint.
type SOAPRequest struct {
	// TimeseriesID correlates the response back to its catalog record.
	TimeseriesID string
	URL          string
	// Version is the short WaterML version ("1.0" or "1.1") used in
	// the SOAPAction header and envelope namespace.
	Version   string
	Location  string
	Variable  string
	StartDate string
	EndDate   string
	AuthToken string
}

// RESTRequest describes one values query to a WaterOneFlow REST
// endpoint.
type RESTRequest struct {
	TimeseriesID string
	URL          string
	SiteCode     string
	VariableCode string
	StartDate    string
	EndDate      string
}

// CachedRequest describes one download from the WaterOneFlow archive
// cache. Payloads come back zip-wrapped.
type CachedRequest struct {
	TimeseriesID string
	CacheURI     string
}

// Result is one fetch outcome. A transport failure yields a nil
// Payload; the item is never dropped and the batch is never aborted.
type Result struct {
	Payload      []byte
	TimeseriesID string
}

// Fetcher issues WaterOneFlow requests concurrently. Every method
// returns when all requests have completed, with one Result per
// input in unspecified order.
type Fetcher interface {
	FetchSOAP(ctx context.Context, reqs []SOAPRequest) []Result
	FetchREST(ctx context.Context, reqs []RESTRequest) []Result
	FetchCached(ctx context.Context, reqs []CachedRequest) []Result
}

// Validator checks an extracted WaterML payload against the XSD
// schema of its version. It never returns an error: any failure to
// load, parse or validate means invalid, with diagnostics logged.
type Validator interface {
	Validate(payload []byte, version string) bool
}

// Loader populates an ODM2 database from the stored WaterML payloads
// of the given references and returns the path of the produced file.
type Loader interface {
	Load(
		ctx context.Context,
		sessionID string,
		timeseriesIDs []string,
		meta refts.Metadata,
	) (string, error)
}

// IngestResult reports the outcome of adding REFTS documents to a
// session.
type IngestResult struct {
	Success bool
	Message string
	// ReftsID identifies the pending batch created for the ingested
	// references; empty when nothing was ingested.
	ReftsID string
	// Count is the number of references added (duplicates skipped).
	Count int
}

// PrepareResult reports the outcome of one preparation pass. The
// pass reports overall success even when individual items failed;
// per-item state is inspected through status polling.
type PrepareResult struct {
	Success bool
	Message string
}

// PackageOptions selects the artifacts of a packaging run.
type PackageOptions struct {
	CreateRefts bool
	CreateODM2  bool
	Metadata    refts.Metadata
}

// PackageResult reports produced artifact paths.
type PackageResult struct {
	Success   bool
	Message   string
	ReftsPath string
	ODM2Path  string
}

// DefaultMetadata is the derived default resource description for a
// session's selected references.
type DefaultMetadata struct {
	Title    string
	Abstract string
	Keywords []string
	Filename string
}

// Orchestrator sequences the preparation pipeline: ingestion creates
// Waiting references, Prepare moves a pending batch through
// Downloading, Validating and into Ready or Failed, Package produces
// the session artifacts.
type Orchestrator interface {
	Ingest(ctx context.Context, sessionID string, docs []*refts.Document) (*IngestResult, error)
	Prepare(ctx context.Context, sessionID, reftsID string) (*PrepareResult, error)
	Package(ctx context.Context, sessionID string, opts PackageOptions) (*PackageResult, error)
	Metadata(ctx context.Context, sessionID string) (*DefaultMetadata, error)
}
