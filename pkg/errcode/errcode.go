package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Catalog store errors
	CatalogConnectionError
	CatalogNotConnectedError
	CatalogMigrateError
	CatalogDuplicateError
	CatalogQueryError
	CatalogNotFoundError

	// WaterML errors
	WMLParseError
	WMLExtractionError

	// Validation errors
	ValidateSchemaLoadError
	ValidatePolicyError

	// ODM2 load errors
	ODM2SeedError
	ODM2ConnectionError
	ODM2MissingSiteError
	ODM2MissingVariableError
	ODM2InsertError

	// REFTS errors
	ReftsParseError
	ReftsWriteError

	// Pipeline errors
	PipelineMetadataError
	PipelineNotReadyError
)
