package core

import (
	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
)

// Options configures a Validator. Zero values fall back to defaults.
type Options struct {
	// AllowedColumns is the header allow-list. Empty means the schema's
	// property names, or DefaultAllowedColumns if the schema declares none.
	AllowedColumns []string

	// SingleCellKeyword flags single-cell rows in the Description column.
	SingleCellKeyword string

	// LaneColumn scopes duplicate checks. Empty disables lane grouping.
	LaneColumn string
}

// DefaultOptions returns the options used by the CLI and server when nothing
// is configured.
func DefaultOptions() Options {
	return Options{
		SingleCellKeyword: DefaultSingleCellKeyword,
		LaneColumn:        ColLane,
	}
}

// Validator runs the full check sequence over a parsed sheet.
// It holds no per-sheet state and is safe for concurrent use.
type Validator struct {
	schema     *Schema
	allowed    []string
	rules      *RuleEngine
	duplicates *DuplicateDetector
}

// NewValidator builds a Validator for schema.
func NewValidator(schema *Schema, opts Options) *Validator {
	allowed := opts.AllowedColumns
	if len(allowed) == 0 {
		allowed = schema.Columns()
	}
	if len(allowed) == 0 {
		allowed = DefaultAllowedColumns
	}

	return &Validator{
		schema:     schema,
		allowed:    allowed,
		rules:      NewRuleEngine(opts.SingleCellKeyword),
		duplicates: NewDuplicateDetector(opts.LaneColumn),
	}
}

// AllowedColumns returns the header allow-list in effect.
func (v *Validator) AllowedColumns() []string {
	return append([]string(nil), v.allowed...)
}

// Check validates doc and returns every problem found.
//
// Unsupported header columns stop validation: field, rule and duplicate
// checks are skipped and only the column errors are returned.
func (v *Validator) Check(doc *samplesheet.Document) []ValidationError {
	if errs := ValidateColumns(doc.Header, v.allowed); len(errs) > 0 {
		return errs
	}

	errs := v.schema.ValidateRecords(doc.Records)
	errs = append(errs, v.rules.Check(doc.Records)...)
	errs = append(errs, v.duplicates.Check(doc)...)
	return errs
}

// Validate is Check rendered to report messages. An empty result means the
// sheet is valid.
func (v *Validator) Validate(doc *samplesheet.Document) []string {
	return RenderAll(v.Check(doc))
}

// ValidateFiles parses the sheet and schema at the given paths and validates.
// Read and parse failures are returned as *samplesheet.FormatError or
// *SchemaLoadError; everything else lands in the report.
func ValidateFiles(sheetPath, schemaPath string, opts Options, parse samplesheet.Options) (Status, string, error) {
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return "", "", err
	}

	doc, err := samplesheet.ParseFile(sheetPath, parse)
	if err != nil {
		return "", "", err
	}

	status, report := Report(NewValidator(schema, opts).Validate(doc))
	return status, report, nil
}
