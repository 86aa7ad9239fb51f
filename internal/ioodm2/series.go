package ioodm2

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/wml"
	"github.com/google/uuid"
)

// Sentinel codes recorded when a WaterML block omits its identifier.
const (
	placeholderCode = "9999"
	unknownValue    = "unknown"
)

// methodRecord carries the per-method fact keys produced while
// writing Methods, Actions and FeatureActions.
type methodRecord struct {
	featureActionID int64
	beginDate       string
	beginOffset     string
	valueCount      int
}

// writeSeries writes every dimension and fact row of one series and
// returns the number of observation values inserted.
func (l *loader) writeSeries(
	ctx context.Context,
	tx *sql.Tx,
	series *wml.Series,
	datasetID int64,
) (int, error) {
	samplingFeatureID, err := upsertSamplingFeature(ctx, tx, series.Site)
	if err != nil {
		return 0, err
	}
	spatialReferenceID, err := upsertSpatialReference(ctx, tx, series.Site.SRSCode)
	if err != nil {
		return 0, err
	}
	if err = upsertSite(
		ctx, tx, samplingFeatureID, spatialReferenceID, series.Site,
	); err != nil {
		return 0, err
	}
	variableID, err := upsertVariable(ctx, tx, series.Variable)
	if err != nil {
		return 0, err
	}
	unitID, err := upsertUnit(ctx, tx, series.Unit)
	if err != nil {
		return 0, err
	}
	// The time-spacing unit of the timeScale block shares the Units
	// table with the measurement unit.
	if _, err = upsertUnit(ctx, tx, series.TimeUnit); err != nil {
		return 0, err
	}
	affiliationID, err := upsertProvenance(ctx, tx, series.Source)
	if err != nil {
		return 0, err
	}
	levelIDs, err := upsertProcessingLevels(ctx, tx, series.Levels)
	if err != nil {
		return 0, err
	}
	methods, err := writeMethods(ctx, tx, series, samplingFeatureID, affiliationID)
	if err != nil {
		return 0, err
	}
	return l.writeResults(
		ctx, tx, series, datasetID, variableID, unitID, methods, levelIDs,
	)
}

func upsertSamplingFeature(
	ctx context.Context,
	tx *sql.Tx,
	site wml.Site,
) (int64, error) {
	if site.Code == "" {
		return 0, MissingSiteError()
	}
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT SamplingFeatureID FROM SamplingFeatures
WHERE SamplingFeatureCode = ?`, site.Code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, InsertError("SamplingFeatures", err)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO SamplingFeatures (
	SamplingFeatureUUID, SamplingFeatureTypeCV, SamplingFeatureCode,
	SamplingFeatureName, SamplingFeatureDescription,
	SamplingFeatureGeotypeCV, FeatureGeometry, FeatureGeometryWKT,
	Elevation_m, ElevationDatumCV
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "site", site.Code,
		nullable(site.Name), nil,
		"point", nil,
		fmt.Sprintf(`POINT ("%s" "%s")`, site.Latitude, site.Longitude),
		nullable(site.Elevation), nullable(site.VerticalDatum))
	if err != nil {
		return 0, InsertError("SamplingFeatures", err)
	}
	return lastID(res, "SamplingFeatures")
}

func upsertSpatialReference(
	ctx context.Context,
	tx *sql.Tx,
	srsCode string,
) (int64, error) {
	if srsCode == "" {
		srsCode = "EPSG:4269"
	}
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT SpatialReferenceID FROM SpatialReferences
WHERE SRSCode = ?`, srsCode).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, InsertError("SpatialReferences", err)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO SpatialReferences (SRSCode, SRSName, SRSDescription, SRSLink)
VALUES (?, ?, ?, ?)`, srsCode, srsCode, nil, nil)
	if err != nil {
		return 0, InsertError("SpatialReferences", err)
	}
	return lastID(res, "SpatialReferences")
}

func upsertSite(
	ctx context.Context,
	tx *sql.Tx,
	samplingFeatureID, spatialReferenceID int64,
	site wml.Site,
) error {
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT SamplingFeatureID FROM Sites
WHERE SamplingFeatureID = ?`, samplingFeatureID).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return InsertError("Sites", err)
	}

	// Latitude and Longitude are NOT NULL, but services may omit the
	// geogLocation block. The raw strings go in as is; SQLite's FLOAT
	// affinity keeps an empty string as text.
	_, err = tx.ExecContext(ctx, `
INSERT INTO Sites (
	SamplingFeatureID, SiteTypeCV, Latitude, Longitude, SpatialReferenceID
) VALUES (?, ?, ?, ?, ?)`,
		samplingFeatureID, unknownValue,
		site.Latitude, site.Longitude,
		spatialReferenceID)
	if err != nil {
		return InsertError("Sites", err)
	}
	return nil
}

func upsertVariable(
	ctx context.Context,
	tx *sql.Tx,
	variable wml.Variable,
) (int64, error) {
	if variable.Code == "" {
		return 0, MissingVariableError()
	}
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT VariableID FROM Variables
WHERE VariableCode = ?`, variable.Code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, InsertError("Variables", err)
	}

	name := variable.Name
	if name == "" {
		name = "Unknown"
	}
	noData := variable.NoDataValue
	if noData == "" {
		noData = "-9999"
	}
	res, err := tx.ExecContext(ctx, `
INSERT INTO Variables (
	VariableTypeCV, VariableCode, VariableNameCV, VariableDefinition,
	SpeciationCV, NoDataValue
) VALUES (?, ?, ?, ?, ?, ?)`,
		"Unknown", variable.Code, name,
		nullable(variable.Definition), nullable(variable.Speciation), noData)
	if err != nil {
		return 0, InsertError("Variables", err)
	}
	return lastID(res, "Variables")
}

// upsertUnit keys the Units table by the WaterML unit code. A missing
// code collapses to the shared placeholder unit.
func upsertUnit(ctx context.Context, tx *sql.Tx, unit wml.Unit) (int64, error) {
	code := unit.Code
	if code == "" {
		code = placeholderCode
		unit = wml.Unit{}
	}
	var id int64
	err := tx.QueryRowContext(ctx, `
SELECT UnitsID FROM Units WHERE UnitsID = ?`, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, InsertError("Units", err)
	}

	unitsType := unit.Type
	if unitsType == "" {
		unitsType = "other"
	}
	abbreviation := unit.Abbreviation
	if abbreviation == "" {
		abbreviation = unknownValue
	}
	name := unit.Name
	if name == "" {
		name = unknownValue
	}
	res, err := tx.ExecContext(ctx, `
INSERT INTO Units (UnitsID, UnitsTypeCV, UnitsAbbreviation, UnitsName, UnitsLink)
VALUES (?, ?, ?, ?, ?)`,
		code, unitsType, abbreviation, name, nullable(unit.Link))
	if err != nil {
		return 0, InsertError("Units", err)
	}
	return lastID(res, "Units")
}

// upsertProvenance writes the People, Organizations and Affiliations
// rows of the source block and returns the affiliation id.
func upsertProvenance(
	ctx context.Context,
	tx *sql.Tx,
	source wml.Source,
) (int64, error) {
	personName := source.ContactName
	if personName == "" {
		personName = unknownValue
	}
	var personID int64
	err := tx.QueryRowContext(ctx, `
SELECT PersonID FROM People WHERE PersonFirstName = ?`, personName).
		Scan(&personID)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.ExecContext(ctx, `
INSERT INTO People (PersonFirstName, PersonLastName) VALUES (?, ?)`,
			personName, " ")
		if err != nil {
			return 0, InsertError("People", err)
		}
		if personID, err = lastID(res, "People"); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, InsertError("People", err)
	}

	orgCode := source.Code
	if orgCode == "" {
		orgCode = unknownValue
	}
	var orgID int64
	err = tx.QueryRowContext(ctx, `
SELECT OrganizationID FROM Organizations
WHERE OrganizationCode = ?`, orgCode).Scan(&orgID)
	if errors.Is(err, sql.ErrNoRows) {
		orgName := unknownValue
		var orgDescription, orgLink any
		if orgCode != unknownValue {
			if source.Organization != "" {
				orgName = source.Organization
			}
			orgDescription = nullable(source.Description)
			orgLink = nullable(source.Link)
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO Organizations (
	OrganizationTypeCV, OrganizationCode, OrganizationName,
	OrganizationDescription, OrganizationLink
) VALUES (?, ?, ?, ?, ?)`,
			unknownValue, orgCode, orgName, orgDescription, orgLink)
		if err != nil {
			return 0, InsertError("Organizations", err)
		}
		if orgID, err = lastID(res, "Organizations"); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, InsertError("Organizations", err)
	}

	var affiliationID int64
	err = tx.QueryRowContext(ctx, `
SELECT AffiliationID FROM Affiliations
WHERE PersonID = ? AND OrganizationID = ?`, personID, orgID).
		Scan(&affiliationID)
	if errors.Is(err, sql.ErrNoRows) {
		email := source.Email
		if email == "" {
			email = unknownValue
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO Affiliations (
	PersonID, OrganizationID, AffiliationStartDate,
	PrimaryPhone, PrimaryEmail, PrimaryAddress
) VALUES (?, ?, ?, ?, ?, ?)`,
			personID, orgID, unknownValue,
			nullable(source.Phone), email, nullable(source.Address))
		if err != nil {
			return 0, InsertError("Affiliations", err)
		}
		if affiliationID, err = lastID(res, "Affiliations"); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, InsertError("Affiliations", err)
	}
	return affiliationID, nil
}

// upsertProcessingLevels writes every qualityControlLevel block, or a
// single placeholder level when the series declares none.
func upsertProcessingLevels(
	ctx context.Context,
	tx *sql.Tx,
	levels []wml.Level,
) ([]int64, error) {
	if len(levels) == 0 {
		levels = []wml.Level{{}}
	}
	ids := make([]int64, 0, len(levels))
	for _, lvl := range levels {
		code := lvl.Code
		if code == "" {
			code = placeholderCode
			lvl = wml.Level{}
		}
		var id int64
		err := tx.QueryRowContext(ctx, `
SELECT ProcessingLevelID FROM ProcessingLevels
WHERE ProcessingLevelCode = ?`, code).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			res, err := tx.ExecContext(ctx, `
INSERT INTO ProcessingLevels (ProcessingLevelCode, Definition, Explanation)
VALUES (?, ?, ?)`,
				code, nullable(lvl.Definition), nullable(lvl.Explanation))
			if err != nil {
				return nil, InsertError("ProcessingLevels", err)
			}
			if id, err = lastID(res, "ProcessingLevels"); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, InsertError("ProcessingLevels", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// writeMethods upserts every method block (or a placeholder) and
// writes its Actions, ActionBy and FeatureActions rows, capturing the
// per-method observation window.
func writeMethods(
	ctx context.Context,
	tx *sql.Tx,
	series *wml.Series,
	samplingFeatureID, affiliationID int64,
) ([]methodRecord, error) {
	methods := series.Methods
	if len(methods) == 0 {
		methods = []wml.Method{{}}
	}

	firstOffset, lastOffset := "+00:00", "+00:00"
	if len(series.Values) > 0 {
		if off := series.Values[0].TimeOffset; off != "" {
			firstOffset = off
		}
		if off := series.Values[len(series.Values)-1].TimeOffset; off != "" {
			lastOffset = off
		}
	}

	records := make([]methodRecord, 0, len(methods))
	for _, method := range methods {
		code := method.Code
		if code == "" {
			code = placeholderCode
			method = wml.Method{}
		}
		var methodID int64
		err := tx.QueryRowContext(ctx, `
SELECT MethodID FROM Methods WHERE MethodCode = ?`, code).Scan(&methodID)
		if errors.Is(err, sql.ErrNoRows) {
			methodType, name := "observation", code
			if code == placeholderCode {
				methodType, name = unknownValue, unknownValue
			}
			res, err := tx.ExecContext(ctx, `
INSERT INTO Methods (
	MethodTypeCV, MethodCode, MethodName, MethodDescription, MethodLink
) VALUES (?, ?, ?, ?, ?)`,
				methodType, code, name,
				nullable(method.Description), nullable(method.Link))
			if err != nil {
				return nil, InsertError("Methods", err)
			}
			if methodID, err = lastID(res, "Methods"); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, InsertError("Methods", err)
		}

		// The observation window counts values tagged with this method
		// code or with no code at all. Some services omit per-value
		// method codes entirely; the full series window covers that.
		begin, end, count := series.MethodWindow(method.Code)
		if count == 0 {
			begin, end, count = series.MethodWindow("")
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO Actions (
	ActionTypeCV, MethodID, BeginDateTime, BeginDateTimeUTCOffset,
	EndDateTime, EndDateTimeUTCOffset, ActionDescription
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			"observation", methodID, begin, firstOffset, end, lastOffset,
			"An observation action that generated a time series result.")
		if err != nil {
			return nil, InsertError("Actions", err)
		}
		actionID, err := lastID(res, "Actions")
		if err != nil {
			return nil, err
		}

		if _, err = tx.ExecContext(ctx, `
INSERT INTO ActionBy (ActionID, AffiliationID, IsActionLead)
VALUES (?, ?, ?)`, actionID, affiliationID, 1); err != nil {
			return nil, InsertError("ActionBy", err)
		}

		res, err = tx.ExecContext(ctx, `
INSERT INTO FeatureActions (SamplingFeatureID, ActionID)
VALUES (?, ?)`, samplingFeatureID, actionID)
		if err != nil {
			return nil, InsertError("FeatureActions", err)
		}
		featureActionID, err := lastID(res, "FeatureActions")
		if err != nil {
			return nil, err
		}

		records = append(records, methodRecord{
			featureActionID: featureActionID,
			beginDate:       begin,
			beginOffset:     firstOffset,
			valueCount:      count,
		})
	}
	return records, nil
}

// writeResults writes one Results row per method and processing level
// pair, its TimeSeriesResults row, the bulk observation values and
// the dataset link. Returns the total number of values inserted.
func (l *loader) writeResults(
	ctx context.Context,
	tx *sql.Tx,
	series *wml.Series,
	datasetID, variableID, unitID int64,
	methods []methodRecord,
	levelIDs []int64,
) (int, error) {
	sampleMedium := series.Variable.SampleMedium
	if sampleMedium == "" {
		sampleMedium = unknownValue
	}

	var total int
	for _, method := range methods {
		for _, levelID := range levelIDs {
			res, err := tx.ExecContext(ctx, `
INSERT INTO Results (
	ResultUUID, FeatureActionID, ResultTypeCV, VariableID, UnitsID,
	ProcessingLevelID, ResultDateTime, ResultDateTimeUTCOffset,
	StatusCV, SampledMediumCV, ValueCount
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), method.featureActionID,
				"timeSeriesCoverage", variableID, unitID, levelID,
				method.beginDate, method.beginOffset,
				nil, sampleMedium, method.valueCount)
			if err != nil {
				return 0, InsertError("Results", err)
			}
			resultID, err := lastID(res, "Results")
			if err != nil {
				return 0, err
			}

			if _, err = tx.ExecContext(ctx, `
INSERT INTO TimeSeriesResults (ResultID, AggregationStatisticCV)
VALUES (?, ?)`, resultID, "Unknown"); err != nil {
				return 0, InsertError("TimeSeriesResults", err)
			}

			n, err := l.writeValues(ctx, tx, resultID, series.Values)
			if err != nil {
				return 0, err
			}
			total += n

			if _, err = tx.ExecContext(ctx, `
INSERT INTO DataSetsResults (DataSetID, ResultID)
VALUES (?, ?)`, datasetID, resultID); err != nil {
				return 0, InsertError("DataSetsResults", err)
			}
		}
	}
	return total, nil
}

// writeValues bulk-inserts the observation values of one result.
func (l *loader) writeValues(
	ctx context.Context,
	tx *sql.Tx,
	resultID int64,
	values []wml.Value,
) (int, error) {
	// SQLite caps bound parameters at 32766 per statement; each row
	// binds 8.
	batchSize := l.cfg.Assets.BatchSize
	if batchSize <= 0 || batchSize > 4000 {
		batchSize = 4000
	}

	for i := 0; i < len(values); i += batchSize {
		end := i + batchSize
		if end > len(values) {
			end = len(values)
		}
		batch := values[i:end]

		query := `
INSERT INTO TimeSeriesResultValues (
	ResultID, DataValue, ValueDateTime, ValueDateTimeUTCOffset,
	CensorCodeCV, QualityCodeCV, TimeAggregationInterval,
	TimeAggregationIntervalUnitsID
) VALUES `
		args := make([]any, 0, len(batch)*8)
		for j, v := range batch {
			if j > 0 {
				query += ", "
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?)"
			offset := v.TimeOffset
			if offset == "" {
				offset = "+00:00"
			}
			censor := v.CensorCode
			if censor == "" {
				censor = "nc"
			}
			args = append(args,
				resultID, v.Data, v.DateTime, offset, censor,
				unknownValue, unknownValue, unknownValue)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, InsertError("TimeSeriesResultValues", err)
		}
	}
	return len(values), nil
}

func lastID(res sql.Result, table string) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, InsertError(table, err)
	}
	return id, nil
}

// nullable maps an absent WaterML field to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
