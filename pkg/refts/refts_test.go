package refts_test

import (
	"encoding/json"
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableMarshal(t *testing.T) {
	tests := []struct {
		msg, out string
		val      refts.Nullable
	}{
		{"empty becomes null", `null`, ""},
		{"text stays quoted", `"Logan River"`, "Logan River"},
		{"numeric text stays quoted", `"41.74"`, "41.74"},
	}

	for _, v := range tests {
		out, err := json.Marshal(v.val)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.out, string(out), v.msg)
	}
}

func TestNullableUnmarshal(t *testing.T) {
	tests := []struct {
		msg, in string
		val     refts.Nullable
	}{
		{"null", `null`, ""},
		{"string", `"USU-LBR-Mendon"`, "USU-LBR-Mendon"},
		{"integer keeps literal text", `52707`, "52707"},
		{"float keeps literal text", `41.718473`, "41.718473"},
	}

	for _, v := range tests {
		var got refts.Nullable
		require.NoError(t, json.Unmarshal([]byte(v.in), &got), v.msg)
		assert.Equal(t, v.val, got, v.msg)
	}
}

const sampleRefts = `{
  "timeSeriesReferenceFile": {
    "abstract": null,
    "fileVersion": "2.0",
    "keyWords": ["Temperature"],
    "referencedTimeSeries": [
      {
        "beginDate": "2014-07-01 00:00:00",
        "endDate": "2014-07-02 00:00:00",
        "method": {
          "methodDescription": "Water temperature sensor",
          "methodLink": null
        },
        "requestInfo": {
          "networkName": "iutah",
          "refType": "WOF",
          "returnType": "WaterML 1.1",
          "serviceType": "SOAP",
          "url": "http://example.org/iutah/cuahsi_1_1.asmx?WSDL"
        },
        "sampleMedium": "Surface water",
        "site": {
          "latitude": 41.718473,
          "longitude": -111.946402,
          "siteCode": "USU-LBR-Mendon",
          "siteName": "Little Bear River at Mendon"
        },
        "valueCount": 96,
        "variable": {
          "variableCode": "USU36",
          "variableName": "Temperature"
        },
        "wofParams": {
          "WofUri": "cuahsi-wdc/iutah/USU-LBR-Mendon/USU36"
        }
      }
    ],
    "symbol": null,
    "title": "Little Bear River temperature"
  }
}`

func TestParse(t *testing.T) {
	doc, err := refts.Parse([]byte(sampleRefts))
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.File.FileVersion)
	assert.Equal(t, refts.Nullable("Little Bear River temperature"), doc.File.Title)
	assert.Empty(t, doc.File.Abstract)
	require.Len(t, doc.File.ReferencedTimeSeries, 1)

	entry := doc.File.ReferencedTimeSeries[0]
	assert.Equal(t, refts.Nullable("USU-LBR-Mendon"), entry.Site.SiteCode)
	assert.Equal(t, refts.Nullable("41.718473"), entry.Site.Latitude)
	assert.Equal(t, refts.Nullable("96"), entry.ValueCount)
	assert.Equal(t, refts.Nullable("SOAP"), entry.RequestInfo.ServiceType)
	require.NotNil(t, entry.WofParams)
	assert.Equal(t,
		refts.Nullable("cuahsi-wdc/iutah/USU-LBR-Mendon/USU36"),
		entry.WofParams.WofURI)
}

func TestParseDoubleEncoded(t *testing.T) {
	var inner struct {
		File string `json:"timeSeriesReferenceFile"`
	}
	var outer map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(sampleRefts), &outer))
	inner.File = string(outer["timeSeriesReferenceFile"])
	wrapped, err := json.Marshal(inner)
	require.NoError(t, err)

	doc, err := refts.Parse(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "2.0", doc.File.FileVersion)
	require.Len(t, doc.File.ReferencedTimeSeries, 1)
	assert.Equal(t, refts.Nullable("USU36"),
		doc.File.ReferencedTimeSeries[0].Variable.VariableCode)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		msg, in string
	}{
		{"not json", "not json at all"},
		{"wrong shape", `{"foo": "bar"}`},
		{"double-encoded garbage", `{"timeSeriesReferenceFile": "not json"}`},
	}

	for _, v := range tests {
		_, err := refts.Parse([]byte(v.in))
		assert.Error(t, err, v.msg)
	}
}
