package ioodm2_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/ioodm2"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeRepo serves stored WaterML payloads from memory. Only GetWML is
// exercised by the loader.
type fakeRepo struct {
	catalog.Repository
	payloads map[string][]byte
}

func (f *fakeRepo) GetWML(
	_ context.Context, _, timeseriesID string,
) ([]byte, string, error) {
	data, ok := f.payloads[timeseriesID]
	if !ok {
		return nil, "", fmt.Errorf("no payload for %s", timeseriesID)
	}
	return data, "WaterML 1.1", nil
}

const temperatureDoc = `<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
  <timeSeries>
    <sourceInfo>
      <siteName>Red Butte Creek</siteName>
      <siteCode>RB_KF_C</siteCode>
      <geoLocation>
        <geogLocation srs="EPSG:4269">
          <latitude>40.7795</latitude>
          <longitude>-111.8065</longitude>
        </geogLocation>
      </geoLocation>
    </sourceInfo>
    <variable>
      <variableCode>RB_WT</variableCode>
      <variableName>Temperature</variableName>
      <sampleMedium>Surface water</sampleMedium>
      <unit>
        <unitName>degree celsius</unitName>
        <unitType>Temperature</unitType>
        <unitAbbreviation>degC</unitAbbreviation>
        <unitCode>96</unitCode>
      </unit>
      <timeScale>
        <unit>
          <unitName>minute</unitName>
          <unitCode>102</unitCode>
        </unit>
      </timeScale>
    </variable>
    <method>
      <methodCode>28</methodCode>
      <methodDescription>Water temperature sensor</methodDescription>
    </method>
    <method>
      <methodCode>29</methodCode>
      <methodDescription>Backup sensor</methodDescription>
    </method>
    <source>
      <sourceCode>iUTAH</sourceCode>
      <organization>iUTAH GAMUT Network</organization>
      <contactInformation>
        <contactName>Jane Operator</contactName>
        <email>jane@example.org</email>
      </contactInformation>
    </source>
    <qualityControlLevel>
      <qualityControlLevelCode>0</qualityControlLevelCode>
      <definition>Raw data</definition>
    </qualityControlLevel>
    <values>
      <value dateTime="2020-06-01T00:00:00" timeOffset="-07:00" methodCode="28">11.2</value>
      <value dateTime="2020-06-01T00:30:00" methodCode="28">11.4</value>
      <value dateTime="2020-06-01T01:00:00" methodCode="29">11.9</value>
      <value dateTime="2020-06-01T01:30:00">12.1</value>
    </values>
  </timeSeries>
</timeSeriesResponse>`

// Same site, different variable, no method, level or source blocks.
const oxygenDoc = `<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
  <timeSeries>
    <sourceInfo>
      <siteName>Red Butte Creek</siteName>
      <siteCode>RB_KF_C</siteCode>
    </sourceInfo>
    <variable>
      <variableCode>RB_DO</variableCode>
      <variableName>Oxygen, dissolved</variableName>
    </variable>
    <values>
      <value dateTime="2020-06-01T00:00:00">8.1</value>
      <value dateTime="2020-06-01T00:30:00">8.2</value>
      <value dateTime="2020-06-01T01:00:00">8.3</value>
    </values>
  </timeSeries>
</timeSeriesResponse>`

// A site without a variable code cannot be loaded; its transaction
// must roll back completely.
const brokenDoc = `<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
  <timeSeries>
    <sourceInfo>
      <siteName>Ghost Site</siteName>
      <siteCode>GHOST</siteCode>
    </sourceInfo>
    <values>
      <value dateTime="2020-06-01T00:00:00">1.0</value>
    </values>
  </timeSeries>
</timeSeriesResponse>`

func newLoader(t *testing.T, sessionID string) (*config.Config, catalog.Repository) {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptAssetsDir(t.TempDir()),
		config.OptAssetsWorkspace(t.TempDir()),
		config.OptAssetsBatchSize(2),
	})
	require.NoError(t,
		os.MkdirAll(filepath.Join(cfg.Assets.Workspace, sessionID), 0755))
	repo := &fakeRepo{payloads: map[string][]byte{
		"ts-wt":     []byte(temperatureDoc),
		"ts-do":     []byte(oxygenDoc),
		"ts-broken": []byte(brokenDoc),
	}}
	return cfg, repo
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	sessionID := "f3b2"
	cfg, repo := newLoader(t, sessionID)
	loader := ioodm2.New(*cfg, repo)

	meta := refts.Metadata{
		Title:    "Red Butte Creek observations",
		Abstract: "Temperature and dissolved oxygen data.",
	}
	path, err := loader.Load(
		context.Background(), sessionID,
		[]string{"ts-wt", "ts-do", "ts-broken"}, meta,
	)
	require.NoError(t, err)
	assert.Equal(filepath.Join(
		cfg.Assets.Workspace, sessionID, config.ODM2FileName), path)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var dsType, dsCode, dsTitle string
	err = db.QueryRow(`
SELECT DataSetTypeCV, DataSetCode, DataSetTitle FROM Datasets`).
		Scan(&dsType, &dsCode, &dsTitle)
	require.NoError(t, err)
	assert.Equal("multiTimeSeries", dsType)
	assert.Equal("1", dsCode)
	assert.Equal(meta.Title, dsTitle)

	// The two loadable series share one site; the broken one rolled
	// back and left nothing behind.
	assert.Equal(1, count(t, db, "SamplingFeatures"))
	assert.Equal(1, count(t, db, "Sites"))
	assert.Equal(1, count(t, db, "SpatialReferences"))
	assert.Equal(2, count(t, db, "Variables"))

	// Measurement unit, time unit, and the shared placeholder.
	assert.Equal(3, count(t, db, "Units"))

	// Named source plus the unknown fallback.
	assert.Equal(2, count(t, db, "People"))
	assert.Equal(2, count(t, db, "Organizations"))
	assert.Equal(2, count(t, db, "Affiliations"))

	// Level 0 plus the placeholder level.
	assert.Equal(2, count(t, db, "ProcessingLevels"))

	// Two declared methods plus the placeholder.
	assert.Equal(3, count(t, db, "Methods"))
	assert.Equal(3, count(t, db, "Actions"))
	assert.Equal(3, count(t, db, "ActionBy"))
	assert.Equal(3, count(t, db, "FeatureActions"))

	// One result per method and level pair per series.
	assert.Equal(3, count(t, db, "Results"))
	assert.Equal(3, count(t, db, "TimeSeriesResults"))
	assert.Equal(3, count(t, db, "DataSetsResults"))

	// The full value list goes in per result: 2x4 + 1x3.
	assert.Equal(11, count(t, db, "TimeSeriesResultValues"))

	var ghost int
	err = db.QueryRow(`
SELECT COUNT(*) FROM SamplingFeatures WHERE SamplingFeatureCode = 'GHOST'`).
		Scan(&ghost)
	require.NoError(t, err)
	assert.Zero(ghost)

	var offset, censor string
	err = db.QueryRow(`
SELECT ValueDateTimeUTCOffset, CensorCodeCV FROM TimeSeriesResultValues
WHERE ValueDateTime = '2020-06-01T01:30:00' LIMIT 1`).Scan(&offset, &censor)
	require.NoError(t, err)
	assert.Equal("+00:00", offset)
	assert.Equal("nc", censor)
}

func TestLoadSingleSeries(t *testing.T) {
	sessionID := "a1c9"
	cfg, repo := newLoader(t, sessionID)
	loader := ioodm2.New(*cfg, repo)

	path, err := loader.Load(
		context.Background(), sessionID, []string{"ts-do"}, refts.Metadata{},
	)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var dsType string
	err = db.QueryRow("SELECT DataSetTypeCV FROM Datasets").Scan(&dsType)
	require.NoError(t, err)
	assert.Equal(t, "singleTimeSeries", dsType)
	assert.Equal(t, 3, count(t, db, "TimeSeriesResultValues"))

	// The document has no geogLocation block; the site still loads,
	// with empty coordinate strings.
	var lat, lon string
	err = db.QueryRow("SELECT Latitude, Longitude FROM Sites").Scan(&lat, &lon)
	require.NoError(t, err)
	assert.Empty(t, lat)
	assert.Empty(t, lon)
}

func TestLoadSeedsFromMaster(t *testing.T) {
	sessionID := "b2d0"
	cfg, repo := newLoader(t, sessionID)

	// Build a master template carrying a marker row, then check the
	// output database descends from it.
	master := filepath.Join(cfg.Assets.Dir, config.ODM2MasterName)
	mdb, err := sql.Open("sqlite", master)
	require.NoError(t, err)
	_, err = mdb.Exec(`CREATE TABLE Datasets (
	DataSetID INTEGER PRIMARY KEY AUTOINCREMENT,
	DataSetUUID TEXT, DataSetTypeCV TEXT, DataSetCode TEXT,
	DataSetTitle TEXT, DataSetAbstract TEXT)`)
	require.NoError(t, err)
	_, err = mdb.Exec(`CREATE TABLE Marker (Name TEXT)`)
	require.NoError(t, err)
	_, err = mdb.Exec(`INSERT INTO Marker (Name) VALUES ('template')`)
	require.NoError(t, err)
	require.NoError(t, mdb.Close())

	loader := ioodm2.New(*cfg, repo)
	path, err := loader.Load(
		context.Background(), sessionID, nil, refts.Metadata{},
	)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var marker string
	err = db.QueryRow("SELECT Name FROM Marker").Scan(&marker)
	require.NoError(t, err)
	assert.Equal(t, "template", marker)
}
