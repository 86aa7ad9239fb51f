package iopipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/wml"
)

// Prepare moves one pending batch through download and validation.
// Cached payloads are tried first; a cached item that fails
// validation is retried against the live service. Individual
// failures mark their reference Failed and never abort the batch.
func (o *orchestrator) Prepare(
	ctx context.Context,
	sessionID, reftsID string,
) (*pipeline.PrepareResult, error) {
	ids, err := o.repo.TakePending(ctx, sessionID, reftsID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &pipeline.PrepareResult{
			Success: true,
			Message: "Nothing to prepare.",
		}, nil
	}

	var refs []*catalog.TimeSeriesReference
	for _, id := range ids {
		ref, err := o.repo.Get(ctx, sessionID, id)
		if err != nil {
			if catalog.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if ref.Status != catalog.StatusWaiting {
			continue
		}
		refs = append(refs, ref)
	}

	for _, ref := range refs {
		if err = o.setStatus(
			ctx, sessionID, ref.TimeseriesID,
			catalog.StatusDownloading, "",
		); err != nil {
			return nil, err
		}
	}

	var cached, live []*catalog.TimeSeriesReference
	for _, ref := range refs {
		if ref.CacheURI != "" {
			cached = append(cached, ref)
		} else {
			live = append(live, ref)
		}
	}

	retry, err := o.prepareCached(ctx, sessionID, cached)
	if err != nil {
		return nil, err
	}
	live = append(live, retry...)

	if err = o.prepareLive(ctx, sessionID, live); err != nil {
		return nil, err
	}

	slog.Info("Preparation pass finished",
		"session_id", sessionID,
		"refts_id", reftsID,
		"count", len(refs))
	return &pipeline.PrepareResult{
		Success: true,
		Message: fmt.Sprintf("Processed %d time series.", len(refs)),
	}, nil
}

// prepareCached downloads zip-wrapped payloads from the WaterOneFlow
// archive. References whose cached payload does not validate are
// returned for a live retry.
func (o *orchestrator) prepareCached(
	ctx context.Context,
	sessionID string,
	refs []*catalog.TimeSeriesReference,
) ([]*catalog.TimeSeriesReference, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	byID := make(map[string]*catalog.TimeSeriesReference, len(refs))
	reqs := make([]pipeline.CachedRequest, len(refs))
	for i, ref := range refs {
		byID[ref.TimeseriesID] = ref
		reqs[i] = pipeline.CachedRequest{
			TimeseriesID: ref.TimeseriesID,
			CacheURI:     ref.CacheURI,
		}
	}

	var retry []*catalog.TimeSeriesReference
	for _, result := range o.fetcher.FetchCached(ctx, reqs) {
		ref := byID[result.TimeseriesID]
		ok, err := o.store(ctx, sessionID, ref, result.Payload, true)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Fall back to the live service.
			if err = o.setStatus(
				ctx, sessionID, ref.TimeseriesID,
				catalog.StatusDownloading, "",
			); err != nil {
				return nil, err
			}
			retry = append(retry, ref)
		}
	}
	return retry, nil
}

// prepareLive downloads payloads from the WaterOneFlow services,
// split by protocol flavor.
func (o *orchestrator) prepareLive(
	ctx context.Context,
	sessionID string,
	refs []*catalog.TimeSeriesReference,
) error {
	if len(refs) == 0 {
		return nil
	}

	byID := make(map[string]*catalog.TimeSeriesReference, len(refs))
	var soapReqs []pipeline.SOAPRequest
	var restReqs []pipeline.RESTRequest
	for _, ref := range refs {
		byID[ref.TimeseriesID] = ref
		if ref.ServiceType == catalog.ServiceREST {
			restReqs = append(restReqs, pipeline.RESTRequest{
				TimeseriesID: ref.TimeseriesID,
				URL:          ref.URL,
				SiteCode:     ref.SiteCode,
				VariableCode: ref.VariableCode,
				StartDate:    ref.BeginDate,
				EndDate:      ref.EndDate,
			})
		} else {
			soapReqs = append(soapReqs, pipeline.SOAPRequest{
				TimeseriesID: ref.TimeseriesID,
				URL:          ref.URL,
				Version:      shortVersion(ref.ReturnType),
				Location:     ref.SiteCode,
				Variable:     ref.VariableCode,
				StartDate:    ref.BeginDate,
				EndDate:      ref.EndDate,
			})
		}
	}

	results := o.fetcher.FetchSOAP(ctx, soapReqs)
	results = append(results, o.fetcher.FetchREST(ctx, restReqs)...)
	for _, result := range results {
		ref := byID[result.TimeseriesID]
		ok, err := o.store(ctx, sessionID, ref, result.Payload, false)
		if err != nil {
			return err
		}
		if !ok {
			if err = o.setStatus(
				ctx, sessionID, ref.TimeseriesID,
				catalog.StatusFailed, ref.StatusDetails,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// store extracts, saves and validates one fetched payload. It reports
// whether the reference reached Ready; the failure detail is left on
// the reference for the caller to apply.
func (o *orchestrator) store(
	ctx context.Context,
	sessionID string,
	ref *catalog.TimeSeriesReference,
	payload []byte,
	unzip bool,
) (bool, error) {
	if len(payload) == 0 {
		ref.StatusDetails = "The WaterOneFlow request returned no data."
		return false, nil
	}

	// Archive payloads are zip-wrapped WaterML whatever the service
	// type, so they all go through the unzipping extractor.
	var data []byte
	var err error
	if ref.ServiceType == catalog.ServiceREST && !unzip {
		data, err = wml.ExtractREST(payload)
	} else {
		data, err = wml.ExtractSOAP(payload, ref.ReturnType, unzip)
	}
	if err != nil {
		slog.Warn("WaterML extraction failed",
			"session_id", sessionID,
			"timeseries_id", ref.TimeseriesID,
			"error", err)
		ref.StatusDetails = "The response contained no usable WaterML data."
		return false, nil
	}

	status := catalog.StatusValidating
	if err = o.repo.Update(ctx, sessionID, ref.TimeseriesID, catalog.Update{
		Status:  &status,
		WMLData: data,
	}); err != nil {
		return false, err
	}

	if !o.validator.Validate(data, ref.ReturnType) {
		ref.StatusDetails = "The WaterML data did not pass schema validation."
		return false, nil
	}

	return true, o.setStatus(
		ctx, sessionID, ref.TimeseriesID, catalog.StatusReady, "",
	)
}

func (o *orchestrator) setStatus(
	ctx context.Context,
	sessionID, timeseriesID string,
	status catalog.Status,
	details string,
) error {
	return o.repo.Update(ctx, sessionID, timeseriesID, catalog.Update{
		Status:        &status,
		StatusDetails: &details,
	})
}

// shortVersion maps a stored return type ("WaterML 1.1") to the
// version fragment used in SOAP actions and envelopes.
func shortVersion(returnType string) string {
	if strings.Contains(returnType, "1.1") {
		return "1.1"
	}
	return "1.0"
}
