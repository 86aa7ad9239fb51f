// Package catalog defines the time series catalog: the records that
// track referenced time series through the preparation pipeline, and
// the repository contract the pipeline uses to reach the store. The
// core never opens a storage handle itself; a Repository is injected
// into every component that needs one.
package catalog

import (
	"time"
)

// Status is the preparation state of one referenced time series.
type Status string

const (
	// StatusWaiting marks a reference that was ingested but not yet
	// dispatched for download.
	StatusWaiting Status = "Waiting"
	// StatusDownloading marks a reference whose WaterOneFlow request
	// is in flight.
	StatusDownloading Status = "Downloading"
	// StatusValidating marks a reference whose payload was fetched and
	// is being schema-validated.
	StatusValidating Status = "Validating"
	// StatusReady marks a reference with a stored, schema-valid
	// WaterML payload. Terminal within one preparation pass.
	StatusReady Status = "Ready"
	// StatusFailed marks a reference whose fetch or validation failed.
	// Terminal within one preparation pass.
	StatusFailed Status = "Failed"
)

// ServiceSOAP and ServiceREST are the supported WaterOneFlow
// protocol flavors.
const (
	ServiceSOAP = "SOAP"
	ServiceREST = "REST"
)

// TimeSeriesReference is one catalog record. Identity is
// (SessionID, TimeseriesID); a session cannot hold two references for
// the same site+variable pair.
type TimeSeriesReference struct {
	ID           uint   `gorm:"primaryKey"`
	SessionID    string `gorm:"index;uniqueIndex:ux_session_site_variable"`
	TimeseriesID string `gorm:"index"`

	Status        Status
	StatusDetails string
	Selected      bool
	DateCreated   time.Time

	BeginDate    string
	EndDate      string
	ValueCount   string
	SampleMedium string

	SiteName  string
	SiteCode  string `gorm:"uniqueIndex:ux_session_site_variable"`
	Latitude  string
	Longitude string

	VariableName string
	VariableCode string `gorm:"uniqueIndex:ux_session_site_variable"`

	MethodDescription string
	MethodLink        string

	NetworkName string
	RefType     string
	// ReturnType is the WaterML flavor of the service
	// ("WaterML 1.0" or "WaterML 1.1").
	ReturnType  string
	ServiceType string
	URL         string
	CacheURI    string

	// WMLData is the extracted WaterML payload, nil until fetched.
	WMLData []byte
}

// TableName keeps the historical table name of the catalog store.
func (TimeSeriesReference) TableName() string {
	return "timeseries_catalog"
}

// PendingTimeseries groups just-ingested references for one
// preparation pass. Rows are consumed (read then deleted) exactly
// once by the pipeline.
type PendingTimeseries struct {
	ID           uint   `gorm:"primaryKey"`
	SessionID    string `gorm:"index"`
	ReftsID      string `gorm:"index"`
	TimeseriesID string
}

// TableName keeps the historical table name of the pending batch
// association.
func (PendingTimeseries) TableName() string {
	return "pending_timeseries"
}

// StatusRecord is the per-item view returned by status polling.
type StatusRecord struct {
	TimeseriesID  string
	Status        Status
	StatusDetails string
}

// ResourceMetadata aggregates the selected rows of a session for
// deriving default resource metadata.
type ResourceMetadata struct {
	SiteNames     []string
	SiteCount     int
	VariableNames []string
	VariableCount int
	SampleMediums []string
	BeginDate     string
	EndDate       string
	// NotReady counts selected rows that are not in StatusReady;
	// packaging requires it to be zero.
	NotReady int
}
