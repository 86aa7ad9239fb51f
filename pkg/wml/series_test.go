package wml_test

import (
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/wml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesDoc = `<?xml version="1.0" encoding="UTF-8"?>
<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
  <timeSeries>
    <sourceInfo>
      <siteName>Red Butte Creek</siteName>
      <siteCode>RB_KF_C</siteCode>
      <elevation_m>1653</elevation_m>
      <verticalDatum>NAVD88</verticalDatum>
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
      <noDataValue>-9999</noDataValue>
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
        <timeSupport>30</timeSupport>
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
      <value dateTime="2020-06-01T00:30:00" methodCode="28" censorCode="nc">11.4</value>
      <value dateTime="2020-06-01T01:00:00" methodCode="29">11.9</value>
      <value dateTime="2020-06-01T01:30:00">12.1</value>
    </values>
  </timeSeries>
</timeSeriesResponse>`

func TestParseSeries(t *testing.T) {
	series, err := wml.ParseSeries([]byte(seriesDoc), "WaterML 1.1")
	require.NoError(t, err)

	assert.Equal(t, "RB_KF_C", series.Site.Code)
	assert.Equal(t, "Red Butte Creek", series.Site.Name)
	assert.Equal(t, "40.7795", series.Site.Latitude)
	assert.Equal(t, "-111.8065", series.Site.Longitude)
	assert.Equal(t, "1653", series.Site.Elevation)
	assert.Equal(t, "NAVD88", series.Site.VerticalDatum)
	assert.Equal(t, "EPSG:4269", series.Site.SRSCode)

	assert.Equal(t, "RB_WT", series.Variable.Code)
	assert.Equal(t, "Temperature", series.Variable.Name)
	assert.Equal(t, "Surface water", series.Variable.SampleMedium)
	assert.Equal(t, "-9999", series.Variable.NoDataValue)

	assert.Equal(t, "96", series.Unit.Code)
	assert.Equal(t, "degC", series.Unit.Abbreviation)
	assert.Equal(t, "102", series.TimeUnit.Code)
	assert.Equal(t, "minute", series.TimeUnit.Name)

	assert.Equal(t, "iUTAH", series.Source.Code)
	assert.Equal(t, "iUTAH GAMUT Network", series.Source.Organization)
	assert.Equal(t, "Jane Operator", series.Source.ContactName)
	assert.Equal(t, "jane@example.org", series.Source.Email)

	require.Len(t, series.Levels, 1)
	assert.Equal(t, "0", series.Levels[0].Code)
	assert.Equal(t, "Raw data", series.Levels[0].Definition)

	require.Len(t, series.Methods, 2)
	assert.Equal(t, "28", series.Methods[0].Code)
	assert.Equal(t, "29", series.Methods[1].Code)

	require.Len(t, series.Values, 4)
	assert.Equal(t, "11.2", series.Values[0].Data)
	assert.Equal(t, "-07:00", series.Values[0].TimeOffset)
	assert.Equal(t, "nc", series.Values[1].CensorCode)
	assert.Equal(t, "", series.Values[3].MethodCode)
}

func TestMethodWindow(t *testing.T) {
	series, err := wml.ParseSeries([]byte(seriesDoc), "WaterML 1.1")
	require.NoError(t, err)

	tests := []struct {
		msg, code   string
		first, last string
		count       int
	}{
		{
			// Untagged values count toward every method.
			msg:   "method 28",
			code:  "28",
			first: "2020-06-01T00:00:00",
			last:  "2020-06-01T01:30:00",
			count: 3,
		},
		{
			msg:   "method 29",
			code:  "29",
			first: "2020-06-01T01:00:00",
			last:  "2020-06-01T01:30:00",
			count: 2,
		},
		{
			msg:   "no method code matches only untagged values",
			code:  "",
			first: "2020-06-01T01:30:00",
			last:  "2020-06-01T01:30:00",
			count: 1,
		},
		{
			msg:   "unknown method",
			code:  "99",
			first: "2020-06-01T01:30:00",
			last:  "2020-06-01T01:30:00",
			count: 1,
		},
	}

	for _, v := range tests {
		first, last, count := series.MethodWindow(v.code)
		assert.Equal(t, v.first, first, v.msg)
		assert.Equal(t, v.last, last, v.msg)
		assert.Equal(t, v.count, count, v.msg)
	}
}

func TestParseSeriesSparseDocument(t *testing.T) {
	doc := `<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.0/">
  <timeSeries>
    <sourceInfo><siteCode>S1</siteCode></sourceInfo>
    <variable><variableCode>V1</variableCode></variable>
  </timeSeries>
</timeSeriesResponse>`

	series, err := wml.ParseSeries([]byte(doc), "WaterML 1.0")
	require.NoError(t, err)

	assert.Equal(t, "S1", series.Site.Code)
	assert.Equal(t, "V1", series.Variable.Code)
	assert.Empty(t, series.Unit.Code)
	assert.Empty(t, series.Levels)
	assert.Empty(t, series.Methods)
	assert.Empty(t, series.Values)

	first, last, count := series.MethodWindow("")
	assert.Empty(t, first)
	assert.Empty(t, last)
	assert.Zero(t, count)
}
