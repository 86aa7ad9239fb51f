package iovalidate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iovalidate"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const miniSchema = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="timeSeriesResponse">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="timeSeries" type="xs:string"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func writeAssets(t *testing.T) *config.AssetsConfig {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"wml_1_0_schema.xsd", "wml_1_1_schema.xsd"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(miniSchema), 0644)
		require.NoError(t, err)
	}
	cfg := config.New()
	cfg.Update([]config.Option{config.OptAssetsDir(dir)})
	return &cfg.Assets
}

func TestNewEmbeddedPolicy(t *testing.T) {
	v, err := iovalidate.New(writeAssets(t))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestNewPolicyErrors(t *testing.T) {
	assets := writeAssets(t)

	assets.PolicyFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := iovalidate.New(assets)
	assert.Error(t, err, "missing policy file")

	bad := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tolerated: {broken"), 0644))
	assets.PolicyFile = bad
	_, err = iovalidate.New(assets)
	assert.Error(t, err, "malformed policy file")
}

func TestValidate(t *testing.T) {
	v, err := iovalidate.New(writeAssets(t))
	require.NoError(t, err)

	tests := []struct {
		msg, payload string
		valid        bool
	}{
		{
			msg:     "conforming document",
			payload: `<timeSeriesResponse><timeSeries>x</timeSeries></timeSeriesResponse>`,
			valid:   true,
		},
		{
			msg:     "wrong structure",
			payload: `<timeSeriesResponse><other>x</other></timeSeriesResponse>`,
			valid:   false,
		},
		{
			msg:     "not well-formed",
			payload: `<timeSeriesResponse>`,
			valid:   false,
		},
	}

	for _, tc := range tests {
		got := v.Validate([]byte(tc.payload), "WaterML 1.1")
		assert.Equal(t, tc.valid, got, tc.msg)
	}
}

func TestValidateMissingSchema(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptAssetsDir(filepath.Join(t.TempDir(), "absent")),
	})
	v, err := iovalidate.New(&cfg.Assets)
	require.NoError(t, err)

	assert.False(t, v.Validate([]byte("<timeSeriesResponse/>"), "WaterML 1.1"))
}

func TestValidateToleratedErrors(t *testing.T) {
	assets := writeAssets(t)
	policyPath := filepath.Join(t.TempDir(), "policy.yaml")
	policy := "tolerated:\n  - \"Missing child element\"\n"
	require.NoError(t, os.WriteFile(policyPath, []byte(policy), 0644))
	assets.PolicyFile = policyPath

	v, err := iovalidate.New(assets)
	require.NoError(t, err)

	// The document omits the required child; the policy absorbs the
	// resulting error so validation passes.
	assert.True(t, v.Validate([]byte(`<timeSeriesResponse/>`), "WaterML 1.1"))
}
