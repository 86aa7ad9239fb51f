package iopipeline

import (
	"context"
	"log/slog"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofs"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
)

// Package produces the session artifacts for the selected references:
// the REFTS manifest and the ODM2 database. The session workspace
// directory is recreated from scratch on every run.
func (o *orchestrator) Package(
	ctx context.Context,
	sessionID string,
	opts pipeline.PackageOptions,
) (*pipeline.PackageResult, error) {
	refs, err := o.repo.ListSelected(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return &pipeline.PackageResult{
			Success: false,
			Message: "Please select at least one row.",
		}, nil
	}
	for _, ref := range refs {
		if ref.Status != catalog.StatusReady {
			return nil, NotReadyError(ref.TimeseriesID, ref.Status)
		}
	}

	if _, err = iofs.ResetSessionDir(
		o.cfg.Assets.Workspace, sessionID,
	); err != nil {
		return nil, err
	}

	res := &pipeline.PackageResult{Success: true}
	if opts.CreateRefts {
		doc := refts.Assemble(refs, opts.Metadata)
		res.ReftsPath, err = refts.WriteFile(
			doc, o.cfg.Assets.Workspace, sessionID,
		)
		if err != nil {
			return nil, err
		}
	}

	if opts.CreateODM2 {
		ids := make([]string, len(refs))
		for i, ref := range refs {
			ids[i] = ref.TimeseriesID
		}
		res.ODM2Path, err = o.loader.Load(ctx, sessionID, ids, opts.Metadata)
		if err != nil {
			return nil, err
		}
	}

	res.Message = "Session artifacts created."
	slog.Info("Packaged session",
		"session_id", sessionID,
		"refts_path", res.ReftsPath,
		"odm2_path", res.ODM2Path)
	return res, nil
}
