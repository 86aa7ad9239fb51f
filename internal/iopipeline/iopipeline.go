// Package iopipeline implements the preparation pipeline orchestrator
// on top of the injected catalog repository, fetcher, validator and
// ODM2 loader.
package iopipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/google/uuid"
)

type orchestrator struct {
	cfg       config.Config
	repo      catalog.Repository
	fetcher   pipeline.Fetcher
	validator pipeline.Validator
	loader    pipeline.Loader
}

// New creates a pipeline orchestrator with injected I/O components.
func New(
	cfg config.Config,
	repo catalog.Repository,
	fetcher pipeline.Fetcher,
	validator pipeline.Validator,
	loader pipeline.Loader,
) pipeline.Orchestrator {
	return &orchestrator{
		cfg:       cfg,
		repo:      repo,
		fetcher:   fetcher,
		validator: validator,
		loader:    loader,
	}
}

// Ingest adds the referenced time series of uploaded REFTS documents
// to the session. Duplicate (site, variable) pairs are skipped. Added
// references are recorded as a pending batch for the next Prepare
// pass.
func (o *orchestrator) Ingest(
	ctx context.Context,
	sessionID string,
	docs []*refts.Document,
) (*pipeline.IngestResult, error) {
	reftsID := uuid.NewString()
	var count, skipped int

	for _, doc := range docs {
		for _, entry := range doc.File.ReferencedTimeSeries {
			ref := referenceFromEntry(sessionID, entry)
			err := o.repo.Add(ctx, ref)
			if catalog.IsDuplicate(err) {
				slog.Debug("Skipping duplicate reference",
					"session_id", sessionID,
					"site_code", ref.SiteCode,
					"variable_code", ref.VariableCode)
				skipped++
				continue
			}
			if err != nil {
				return nil, err
			}
			err = o.repo.AddPending(ctx, &catalog.PendingTimeseries{
				SessionID:    sessionID,
				ReftsID:      reftsID,
				TimeseriesID: ref.TimeseriesID,
			})
			if err != nil {
				return nil, err
			}
			count++
		}
	}

	res := &pipeline.IngestResult{Success: true, Count: count}
	if count == 0 {
		res.Message = "No new time series references were added."
		return res, nil
	}
	res.ReftsID = reftsID
	res.Message = fmt.Sprintf(
		"Added %d time series references (%d duplicates skipped).",
		count, skipped,
	)
	slog.Info("Ingested REFTS documents",
		"session_id", sessionID,
		"refts_id", reftsID,
		"added", count,
		"skipped", skipped)
	return res, nil
}

// referenceFromEntry maps one REFTS entry into a catalog record in
// the Waiting state.
func referenceFromEntry(
	sessionID string,
	entry refts.Entry,
) *catalog.TimeSeriesReference {
	var cacheURI string
	if entry.WofParams != nil {
		cacheURI = string(entry.WofParams.WofURI)
	}
	return &catalog.TimeSeriesReference{
		SessionID:    sessionID,
		TimeseriesID: uuid.NewString(),
		Status:       catalog.StatusWaiting,
		Selected:     true,
		DateCreated:  time.Now(),

		BeginDate:    string(entry.BeginDate),
		EndDate:      string(entry.EndDate),
		ValueCount:   string(entry.ValueCount),
		SampleMedium: string(entry.SampleMedium),

		SiteName:  string(entry.Site.SiteName),
		SiteCode:  string(entry.Site.SiteCode),
		Latitude:  string(entry.Site.Latitude),
		Longitude: string(entry.Site.Longitude),

		VariableName: string(entry.Variable.VariableName),
		VariableCode: string(entry.Variable.VariableCode),

		MethodDescription: string(entry.Method.MethodDescription),
		MethodLink:        string(entry.Method.MethodLink),

		NetworkName: string(entry.RequestInfo.NetworkName),
		RefType:     string(entry.RequestInfo.RefType),
		ReturnType:  string(entry.RequestInfo.ReturnType),
		ServiceType: string(entry.RequestInfo.ServiceType),
		URL:         string(entry.RequestInfo.URL),
		CacheURI:    cacheURI,
	}
}
