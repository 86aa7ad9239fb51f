package iopipeline_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReady(
	t *testing.T,
	repo *memRepo,
	timeseriesID, siteName, variableName, medium string,
) {
	t.Helper()
	require.NoError(t, repo.Add(context.Background(),
		&catalog.TimeSeriesReference{
			SessionID:    sessionID,
			TimeseriesID: timeseriesID,
			Status:       catalog.StatusReady,
			Selected:     true,
			SiteName:     siteName,
			SiteCode:     timeseriesID + "-site",
			VariableName: variableName,
			VariableCode: timeseriesID + "-var",
			SampleMedium: medium,
			BeginDate:    "2014-07-01 00:00:00",
			EndDate:      "2015-01-01 00:00:00",
		}))
}

func TestMetadata(t *testing.T) {
	assert := assert.New(t)
	repo := newMemRepo()
	seedReady(t, repo, "ts-1", "Red Butte Creek", "Temperature", "Surface water")
	seedReady(t, repo, "ts-2", "Red Butte Creek", "Discharge", "Surface water")

	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")
	md, err := orch.Metadata(context.Background(), sessionID)
	require.NoError(t, err)

	date := time.Now().Format("Jan 2, 2006")
	assert.Equal(fmt.Sprintf(
		"Time series dataset created on %s by the HydroShare Time Series Manager",
		date), md.Title)
	assert.Equal(fmt.Sprintf(
		"Temperature and Discharge data collected from 2014-07-01 00:00:00 "+
			"to 2015-01-01 00:00:00 at the following site: Red Butte Creek. "+
			"Data compiled by the HydroShare Time Series Manager on %s",
		date), md.Abstract)
	assert.Equal(
		[]string{"Red Butte Creek", "Temperature", "Discharge", "Surface water"},
		md.Keywords)
	assert.Equal("temperature-at-red-butte-creek", md.Filename)
}

func TestMetadataManySites(t *testing.T) {
	assert := assert.New(t)
	repo := newMemRepo()
	for i := 1; i <= 7; i++ {
		seedReady(t, repo,
			fmt.Sprintf("ts-%d", i),
			fmt.Sprintf("Site %d", i),
			"Oxygen, dissolved", "")
	}

	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")
	md, err := orch.Metadata(context.Background(), sessionID)
	require.NoError(t, err)

	assert.Contains(md.Abstract,
		"at the following sites: Site 1, Site 2, Site 3, Site 4, Site 5, "+
			"and 2 more sites.")
	// Only the listed names become keywords.
	assert.Equal(
		[]string{"Site 1", "Site 2", "Site 3", "Site 4", "Site 5",
			"Oxygen, dissolved"},
		md.Keywords)
	assert.Equal("oxygen-dissolved-at-site-1", md.Filename)
}

func TestMetadataRequiresReady(t *testing.T) {
	repo := newMemRepo()
	seedReady(t, repo, "ts-1", "Red Butte Creek", "Temperature", "")
	ref := repo.refs["ts-1"]
	ref.Status = catalog.StatusFailed

	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")
	_, err := orch.Metadata(context.Background(), sessionID)
	assert.Error(t, err)
}

func TestMetadataRequiresSelection(t *testing.T) {
	orch := newOrchestrator(newMemRepo(), &fakeFetcher{}, &fakeLoader{}, "")
	_, err := orch.Metadata(context.Background(), sessionID)
	assert.Error(t, err)
}
