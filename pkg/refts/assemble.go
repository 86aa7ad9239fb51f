package refts

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
)

// Metadata is the user-facing description of an assembled document.
type Metadata struct {
	Title    string
	Abstract string
	Keywords []string
}

// Assemble builds a REFTS document from catalog records. Empty stored
// values become explicit nulls in the output.
func Assemble(records []catalog.TimeSeriesReference, meta Metadata) *Document {
	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = Entry{
			BeginDate:    Nullable(rec.BeginDate),
			EndDate:      Nullable(rec.EndDate),
			SampleMedium: Nullable(rec.SampleMedium),
			ValueCount:   Nullable(rec.ValueCount),
			Site: Site{
				SiteName:  Nullable(rec.SiteName),
				SiteCode:  Nullable(rec.SiteCode),
				Latitude:  Nullable(rec.Latitude),
				Longitude: Nullable(rec.Longitude),
			},
			Variable: Variable{
				VariableName: Nullable(rec.VariableName),
				VariableCode: Nullable(rec.VariableCode),
			},
			Method: Method{
				MethodLink:        Nullable(rec.MethodLink),
				MethodDescription: Nullable(rec.MethodDescription),
			},
			RequestInfo: RequestInfo{
				RefType:     Nullable(rec.RefType),
				ServiceType: Nullable(rec.ServiceType),
				URL:         Nullable(rec.URL),
				ReturnType:  Nullable(rec.ReturnType),
				NetworkName: Nullable(rec.NetworkName),
			},
		}
	}

	return &Document{
		File: ReferenceFile{
			FileVersion:          config.ReftsFileVersion,
			Title:                Nullable(meta.Title),
			KeyWords:             meta.Keywords,
			Abstract:             Nullable(meta.Abstract),
			Symbol:               Symbol,
			ReferencedTimeSeries: entries,
		},
	}
}

// WriteFile marshals doc with stable indentation and writes it to
// <workspace>/<sessionID>/timeseries.refts.json, returning the full
// path.
func WriteFile(doc *Document, workspace, sessionID string) (string, error) {
	path := filepath.Join(workspace, sessionID, config.ReftsFileName)

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", WriteError(path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", WriteError(path, err)
	}
	return path, nil
}
