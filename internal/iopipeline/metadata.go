package iopipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
)

// listedNames caps how many site or variable names appear verbatim in
// derived text; the rest collapse to "and N more".
const listedNames = 5

// Metadata derives the default resource description of a session from
// its selected references. Every selected reference must be Ready.
func (o *orchestrator) Metadata(
	ctx context.Context,
	sessionID string,
) (*pipeline.DefaultMetadata, error) {
	md, err := o.repo.Metadata(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if md.NotReady > 0 {
		return nil, MetadataError(
			"Please select only rows that are ready before creating a resource.",
		)
	}
	if md.SiteCount == 0 || md.VariableCount == 0 {
		return nil, MetadataError("Please select at least one row.")
	}

	siteNames := md.SiteNames
	if len(siteNames) > listedNames {
		siteNames = siteNames[:listedNames]
	}
	variableNames := md.VariableNames
	if len(variableNames) > listedNames {
		variableNames = variableNames[:listedNames]
	}

	date := time.Now().Format("Jan 2, 2006")
	sites := strings.Join(siteNames, ", ")
	if md.SiteCount > listedNames {
		extra := md.SiteCount - listedNames
		plural := "s"
		if extra == 1 {
			plural = ""
		}
		sites = fmt.Sprintf("%s, and %d more site%s", sites, extra, plural)
	}

	var variables string
	switch {
	case len(variableNames) == 1:
		variables = variableNames[0]
	case len(variableNames) == 2:
		variables = strings.Join(variableNames, " and ")
	case md.VariableCount > listedNames:
		variables = fmt.Sprintf("%s, and %d more variables",
			strings.Join(variableNames, ", "),
			md.VariableCount-listedNames)
	default:
		variables = strings.Join(variableNames[:len(variableNames)-1], ", ") +
			", and " + variableNames[len(variableNames)-1]
	}

	siteS := ""
	if md.SiteCount > 1 {
		siteS = "s"
	}

	keywords := make(
		[]string, 0,
		len(siteNames)+len(variableNames)+len(md.SampleMediums),
	)
	keywords = append(keywords, siteNames...)
	keywords = append(keywords, variableNames...)
	keywords = append(keywords, md.SampleMediums...)

	filename := slugify(variableNames[0] + "-at-" + siteNames[0])
	if len(filename) > 40 {
		filename = filename[:40]
	}

	return &pipeline.DefaultMetadata{
		Title: fmt.Sprintf(
			"Time series dataset created on %s by the HydroShare Time Series Manager",
			date,
		),
		Abstract: fmt.Sprintf(
			"%s data collected from %s to %s at the following site%s: %s. "+
				"Data compiled by the HydroShare Time Series Manager on %s",
			variables, md.BeginDate, md.EndDate, siteS, sites, date,
		),
		Keywords: keywords,
		Filename: filename,
	}, nil
}

// slugify lowercases s, collapses whitespace runs to single hyphens
// and drops everything that is not alphanumeric or a hyphen.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
