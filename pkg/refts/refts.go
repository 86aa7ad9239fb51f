// Package refts reads and writes Referenced Time Series (REFTS)
// documents: portable JSON manifests that point to external WaterML
// sources instead of embedding observations.
package refts

import (
	"bytes"
	"encoding/json"
)

// Symbol is the resource icon written into assembled documents.
const Symbol = "https://www.hydroshare.org/static/img/logo-lg.png"

// Nullable is an optional string field of a REFTS document. It
// marshals an empty value as an explicit JSON null (never as ""),
// and tolerates null, string and number inputs when unmarshaling,
// since live REFTS files disagree on the type of fields like
// valueCount and latitude.
type Nullable string

// MarshalJSON implements json.Marshaler.
func (n Nullable) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Nullable(s)
		return nil
	}
	// Numbers keep their literal text.
	*n = Nullable(data)
	return nil
}

// Document is the top-level REFTS envelope.
type Document struct {
	File ReferenceFile `json:"timeSeriesReferenceFile"`
}

// ReferenceFile is the body of a REFTS document. Fields are declared
// in key order so marshaled output has deterministic, reproducible
// bytes.
type ReferenceFile struct {
	Abstract             Nullable `json:"abstract"`
	FileVersion          string   `json:"fileVersion"`
	KeyWords             []string `json:"keyWords"`
	ReferencedTimeSeries []Entry  `json:"referencedTimeSeries"`
	Symbol               Nullable `json:"symbol"`
	Title                Nullable `json:"title"`
}

// Entry describes one referenced time series.
type Entry struct {
	BeginDate    Nullable    `json:"beginDate"`
	EndDate      Nullable    `json:"endDate"`
	Method       Method      `json:"method"`
	RequestInfo  RequestInfo `json:"requestInfo"`
	SampleMedium Nullable    `json:"sampleMedium"`
	Site         Site        `json:"site"`
	ValueCount   Nullable    `json:"valueCount"`
	Variable     Variable    `json:"variable"`
	// WofParams appears only in ingested documents coming from the
	// HydroClient cache; it is never written back out.
	WofParams *WofParams `json:"wofParams,omitempty"`
}

// Site identifies the monitoring site of an entry.
type Site struct {
	Latitude  Nullable `json:"latitude"`
	Longitude Nullable `json:"longitude"`
	SiteCode  Nullable `json:"siteCode"`
	SiteName  Nullable `json:"siteName"`
}

// Variable identifies the observed variable of an entry.
type Variable struct {
	VariableCode Nullable `json:"variableCode"`
	VariableName Nullable `json:"variableName"`
}

// Method describes how the observations were produced.
type Method struct {
	MethodDescription Nullable `json:"methodDescription"`
	MethodLink        Nullable `json:"methodLink"`
}

// RequestInfo describes the WaterOneFlow service the entry points to.
type RequestInfo struct {
	NetworkName Nullable `json:"networkName"`
	RefType     Nullable `json:"refType"`
	ReturnType  Nullable `json:"returnType"`
	ServiceType Nullable `json:"serviceType"`
	URL         Nullable `json:"url"`
}

// WofParams carries HydroClient cache parameters of an ingested
// entry.
type WofParams struct {
	WofURI Nullable `json:"WofUri"`
}

// Parse decodes an uploaded REFTS document. Missing keys decode to
// empty values. Some clients double-encode the document, sending the
// timeSeriesReferenceFile value as a JSON string; that shape is
// unwrapped transparently.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil &&
		doc.File.ReferencedTimeSeries != nil {
		return &doc, nil
	}

	var wrapped struct {
		File string `json:"timeSeriesReferenceFile"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.File == "" {
		return nil, ParseError(err)
	}
	var file ReferenceFile
	if err := json.Unmarshal([]byte(wrapped.File), &file); err != nil {
		return nil, ParseError(err)
	}
	return &Document{File: file}, nil
}
