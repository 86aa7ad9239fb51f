// Package ioodm2 populates an ODM2 SQLite database from the stored
// WaterML payloads of a session. The output file is seeded from the
// blank master template in the assets directory, or from embedded DDL
// when no template is present.
package ioodm2

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofs"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/wml"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

type loader struct {
	cfg  config.Config
	repo catalog.Repository
}

// New creates an ODM2 loader reading payloads from the given catalog
// repository.
func New(cfg config.Config, repo catalog.Repository) pipeline.Loader {
	return &loader{cfg: cfg, repo: repo}
}

// Load builds <workspace>/<session>/timeseries.odm2.sqlite from the
// stored WaterML of the given references. A series that cannot be
// loaded is rolled back and skipped; the rest of the batch proceeds.
func (l *loader) Load(
	ctx context.Context,
	sessionID string,
	timeseriesIDs []string,
	meta refts.Metadata,
) (string, error) {
	path := filepath.Join(
		l.cfg.Assets.Workspace, sessionID, config.ODM2FileName,
	)
	if err := l.seed(path); err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", ConnectionError(path, err)
	}
	defer db.Close()

	datasetID, err := insertDataset(ctx, db, len(timeseriesIDs), meta)
	if err != nil {
		return "", err
	}

	bar := pb.Full.Start(len(timeseriesIDs))
	bar.Set("prefix", "Loading series: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var loaded, skipped, values int
	for _, id := range timeseriesIDs {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := l.loadSeries(ctx, db, sessionID, id, datasetID)
		if err != nil {
			slog.Warn("Skipping series",
				"session_id", sessionID,
				"timeseries_id", id,
				"error", err)
			skipped++
		} else {
			loaded++
			values += n
		}
		bar.Increment()
	}
	bar.Finish()

	slog.Info("ODM2 load complete",
		"session_id", sessionID,
		"loaded", loaded,
		"skipped", skipped,
		"values", values)
	gn.Message(
		"<em>Loaded %s series with %s values into %s</em>",
		humanize.Comma(int64(loaded)),
		humanize.Comma(int64(values)),
		filepath.Base(path),
	)
	return path, nil
}

// seed creates the output database file. The master template from the
// assets directory is preferred; the embedded DDL covers deployments
// that ship without one.
func (l *loader) seed(path string) error {
	master := filepath.Join(l.cfg.Assets.Dir, config.ODM2MasterName)
	if _, err := os.Stat(master); err == nil {
		if err = iofs.CopyFile(master, path); err != nil {
			return SeedError(path, err)
		}
		return nil
	}

	slog.Info("No ODM2 master template, initializing from DDL",
		"path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return SeedError(path, err)
	}
	defer db.Close()
	for _, stmt := range ddl {
		if _, err = db.Exec(stmt); err != nil {
			return SeedError(path, err)
		}
	}
	return nil
}

// insertDataset writes the single Datasets row of the invocation.
func insertDataset(
	ctx context.Context,
	db *sql.DB,
	seriesCount int,
	meta refts.Metadata,
) (int64, error) {
	dsType := "multiTimeSeries"
	if seriesCount == 1 {
		dsType = "singleTimeSeries"
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO Datasets (
	DataSetUUID, DataSetTypeCV, DataSetCode, DataSetTitle, DataSetAbstract
) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), dsType, "1", meta.Title, meta.Abstract)
	if err != nil {
		return 0, InsertError("Datasets", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, InsertError("Datasets", err)
	}
	return id, nil
}

// loadSeries loads one reference inside its own transaction and
// returns the number of observation values written.
func (l *loader) loadSeries(
	ctx context.Context,
	db *sql.DB,
	sessionID, timeseriesID string,
	datasetID int64,
) (int, error) {
	data, returnType, err := l.repo.GetWML(ctx, sessionID, timeseriesID)
	if err != nil {
		return 0, err
	}
	series, err := wml.ParseSeries(data, returnType)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ConnectionError("begin transaction", err)
	}
	n, err := l.writeSeries(ctx, tx, series, datasetID)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, InsertError("commit", err)
	}
	return n, nil
}
