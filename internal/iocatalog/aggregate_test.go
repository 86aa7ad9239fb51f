package iocatalog_test

import (
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iocatalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	assert := assert.New(t)
	refs := []catalog.TimeSeriesReference{
		{
			Status:       catalog.StatusReady,
			SiteName:     "Red Butte Creek",
			VariableName: "Temperature",
			SampleMedium: "Surface water",
			BeginDate:    "2014-07-01 00:00:00",
			EndDate:      "2015-01-01 00:00:00",
		},
		{
			// Same site, different variable.
			Status:       catalog.StatusReady,
			SiteName:     "Red Butte Creek",
			VariableName: "Discharge",
			SampleMedium: "Surface water",
			BeginDate:    "2013-05-01 00:00:00",
			EndDate:      "2014-09-01 00:00:00",
		},
		{
			Status:       catalog.StatusFailed,
			SiteName:     "Logan River",
			VariableName: "Temperature",
			EndDate:      "2016-02-01 00:00:00",
		},
	}

	meta := iocatalog.Aggregate(refs)

	assert.Equal([]string{"Red Butte Creek", "Logan River"}, meta.SiteNames)
	assert.Equal(2, meta.SiteCount)
	assert.Equal([]string{"Temperature", "Discharge"}, meta.VariableNames)
	assert.Equal(2, meta.VariableCount)
	assert.Equal([]string{"Surface water"}, meta.SampleMediums)
	assert.Equal("2013-05-01 00:00:00", meta.BeginDate)
	assert.Equal("2016-02-01 00:00:00", meta.EndDate)
	assert.Equal(1, meta.NotReady)
}

func TestAggregateEmpty(t *testing.T) {
	meta := iocatalog.Aggregate(nil)
	assert.Zero(t, meta.SiteCount)
	assert.Zero(t, meta.VariableCount)
	assert.Empty(t, meta.BeginDate)
	assert.Empty(t, meta.EndDate)
	assert.Zero(t, meta.NotReady)
}
