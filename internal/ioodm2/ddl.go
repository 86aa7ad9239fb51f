package ioodm2

// ddl holds the subset of the ODM2 schema the loader populates. It is
// used to initialize an output database when no master template file
// is available in the assets directory. Column types follow the ODM2
// SQLite blank schema.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS Datasets (
	DataSetID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	DataSetUUID VARCHAR(36) NOT NULL,
	DataSetTypeCV VARCHAR(255) NOT NULL,
	DataSetCode VARCHAR(50) NOT NULL,
	DataSetTitle VARCHAR(255) NOT NULL,
	DataSetAbstract TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS SamplingFeatures (
	SamplingFeatureID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	SamplingFeatureUUID VARCHAR(36) NOT NULL,
	SamplingFeatureTypeCV VARCHAR(255) NOT NULL,
	SamplingFeatureCode VARCHAR(50) NOT NULL,
	SamplingFeatureName VARCHAR(255),
	SamplingFeatureDescription TEXT,
	SamplingFeatureGeotypeCV VARCHAR(255),
	FeatureGeometry BLOB,
	FeatureGeometryWKT TEXT,
	Elevation_m FLOAT,
	ElevationDatumCV VARCHAR(255)
)`,
	`CREATE TABLE IF NOT EXISTS SpatialReferences (
	SpatialReferenceID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	SRSCode VARCHAR(50),
	SRSName VARCHAR(255) NOT NULL,
	SRSDescription TEXT,
	SRSLink VARCHAR(255)
)`,
	`CREATE TABLE IF NOT EXISTS Sites (
	SamplingFeatureID INTEGER NOT NULL PRIMARY KEY,
	SiteTypeCV VARCHAR(255) NOT NULL,
	Latitude FLOAT NOT NULL,
	Longitude FLOAT NOT NULL,
	SpatialReferenceID INTEGER NOT NULL,
	FOREIGN KEY (SamplingFeatureID) REFERENCES SamplingFeatures (SamplingFeatureID),
	FOREIGN KEY (SpatialReferenceID) REFERENCES SpatialReferences (SpatialReferenceID)
)`,
	`CREATE TABLE IF NOT EXISTS Variables (
	VariableID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	VariableTypeCV VARCHAR(255) NOT NULL,
	VariableCode VARCHAR(50) NOT NULL,
	VariableNameCV VARCHAR(255) NOT NULL,
	VariableDefinition TEXT,
	SpeciationCV VARCHAR(255),
	NoDataValue DOUBLE NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS Units (
	UnitsID INTEGER NOT NULL PRIMARY KEY,
	UnitsTypeCV VARCHAR(255) NOT NULL,
	UnitsAbbreviation VARCHAR(255) NOT NULL,
	UnitsName VARCHAR(255) NOT NULL,
	UnitsLink VARCHAR(255)
)`,
	`CREATE TABLE IF NOT EXISTS People (
	PersonID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	PersonFirstName VARCHAR(255) NOT NULL,
	PersonMiddleName VARCHAR(255),
	PersonLastName VARCHAR(255) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS Organizations (
	OrganizationID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	OrganizationTypeCV VARCHAR(255) NOT NULL,
	OrganizationCode VARCHAR(50) NOT NULL,
	OrganizationName VARCHAR(255) NOT NULL,
	OrganizationDescription TEXT,
	OrganizationLink VARCHAR(255),
	ParentOrganizationID INTEGER
)`,
	`CREATE TABLE IF NOT EXISTS Affiliations (
	AffiliationID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	PersonID INTEGER NOT NULL,
	OrganizationID INTEGER,
	IsPrimaryOrganizationContact BIT,
	AffiliationStartDate DATE NOT NULL,
	AffiliationEndDate DATE,
	PrimaryPhone VARCHAR(50),
	PrimaryEmail VARCHAR(255) NOT NULL,
	PrimaryAddress VARCHAR(255),
	PersonLink VARCHAR(255),
	FOREIGN KEY (PersonID) REFERENCES People (PersonID),
	FOREIGN KEY (OrganizationID) REFERENCES Organizations (OrganizationID)
)`,
	`CREATE TABLE IF NOT EXISTS ProcessingLevels (
	ProcessingLevelID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	ProcessingLevelCode VARCHAR(50) NOT NULL,
	Definition TEXT,
	Explanation TEXT
)`,
	`CREATE TABLE IF NOT EXISTS Methods (
	MethodID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	MethodTypeCV VARCHAR(255) NOT NULL,
	MethodCode VARCHAR(50) NOT NULL,
	MethodName VARCHAR(255) NOT NULL,
	MethodDescription TEXT,
	MethodLink VARCHAR(255),
	OrganizationID INTEGER,
	FOREIGN KEY (OrganizationID) REFERENCES Organizations (OrganizationID)
)`,
	`CREATE TABLE IF NOT EXISTS Actions (
	ActionID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	ActionTypeCV VARCHAR(255) NOT NULL,
	MethodID INTEGER NOT NULL,
	BeginDateTime DATETIME NOT NULL,
	BeginDateTimeUTCOffset INTEGER NOT NULL,
	EndDateTime DATETIME,
	EndDateTimeUTCOffset INTEGER,
	ActionDescription TEXT,
	ActionFileLink VARCHAR(255),
	FOREIGN KEY (MethodID) REFERENCES Methods (MethodID)
)`,
	`CREATE TABLE IF NOT EXISTS ActionBy (
	BridgeID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	ActionID INTEGER NOT NULL,
	AffiliationID INTEGER NOT NULL,
	IsActionLead BIT NOT NULL,
	RoleDescription TEXT,
	FOREIGN KEY (ActionID) REFERENCES Actions (ActionID),
	FOREIGN KEY (AffiliationID) REFERENCES Affiliations (AffiliationID)
)`,
	`CREATE TABLE IF NOT EXISTS FeatureActions (
	FeatureActionID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	SamplingFeatureID INTEGER NOT NULL,
	ActionID INTEGER NOT NULL,
	FOREIGN KEY (SamplingFeatureID) REFERENCES SamplingFeatures (SamplingFeatureID),
	FOREIGN KEY (ActionID) REFERENCES Actions (ActionID)
)`,
	`CREATE TABLE IF NOT EXISTS Results (
	ResultID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	ResultUUID VARCHAR(36) NOT NULL,
	FeatureActionID INTEGER NOT NULL,
	ResultTypeCV VARCHAR(255) NOT NULL,
	VariableID INTEGER NOT NULL,
	UnitsID INTEGER NOT NULL,
	TaxonomicClassifierID INTEGER,
	ProcessingLevelID INTEGER NOT NULL,
	ResultDateTime DATETIME,
	ResultDateTimeUTCOffset INTEGER,
	ValidDateTime DATETIME,
	ValidDateTimeUTCOffset INTEGER,
	StatusCV VARCHAR(255),
	SampledMediumCV VARCHAR(255) NOT NULL,
	ValueCount INTEGER NOT NULL,
	FOREIGN KEY (FeatureActionID) REFERENCES FeatureActions (FeatureActionID),
	FOREIGN KEY (VariableID) REFERENCES Variables (VariableID),
	FOREIGN KEY (UnitsID) REFERENCES Units (UnitsID),
	FOREIGN KEY (ProcessingLevelID) REFERENCES ProcessingLevels (ProcessingLevelID)
)`,
	`CREATE TABLE IF NOT EXISTS TimeSeriesResults (
	ResultID INTEGER NOT NULL PRIMARY KEY,
	XLocation FLOAT,
	XLocationUnitsID INTEGER,
	YLocation FLOAT,
	YLocationUnitsID INTEGER,
	ZLocation FLOAT,
	ZLocationUnitsID INTEGER,
	SpatialReferenceID INTEGER,
	IntendedTimeSpacing FLOAT,
	IntendedTimeSpacingUnitsID INTEGER,
	AggregationStatisticCV VARCHAR(255) NOT NULL,
	FOREIGN KEY (ResultID) REFERENCES Results (ResultID)
)`,
	`CREATE TABLE IF NOT EXISTS TimeSeriesResultValues (
	ValueID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	ResultID INTEGER NOT NULL,
	DataValue FLOAT NOT NULL,
	ValueDateTime DATETIME NOT NULL,
	ValueDateTimeUTCOffset INTEGER NOT NULL,
	CensorCodeCV VARCHAR(255) NOT NULL,
	QualityCodeCV VARCHAR(255) NOT NULL,
	TimeAggregationInterval FLOAT NOT NULL,
	TimeAggregationIntervalUnitsID INTEGER NOT NULL,
	FOREIGN KEY (ResultID) REFERENCES TimeSeriesResults (ResultID)
)`,
	`CREATE TABLE IF NOT EXISTS DataSetsResults (
	BridgeID INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	DataSetID INTEGER NOT NULL,
	ResultID INTEGER NOT NULL,
	FOREIGN KEY (DataSetID) REFERENCES Datasets (DataSetID),
	FOREIGN KEY (ResultID) REFERENCES Results (ResultID)
)`,
}
