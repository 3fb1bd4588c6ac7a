package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/samplesheet/internal/logging"
	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/google/uuid"
)

// ValidationTimeout is the maximum duration of a single validation or transform.
var ValidationTimeout = 2 * time.Minute

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Schema        *Schema
	Options       Options
	DataSections  []string // data section candidates, in priority order
	IndexField    string   // default field for ReverseComplement
	V2Columns     []string // kept columns for ConvertV1ToV2, nil for defaults
	MaxConcurrent int
	MaxWait       time.Duration
}

// Service runs validations and transforms for the server. Every call parses
// its own sheet, so one Service serves any number of requests.
type Service struct {
	validator  *Validator
	opts       Options
	parse      samplesheet.Options
	indexField string
	v2Columns  []string
	limiter    *Limiter
}

// Result is the outcome of one validation.
type Result struct {
	ID      string   `json:"validation_id"`
	Status  Status   `json:"status"`
	Report  string   `json:"report"`
	Errors  []string `json:"errors"`
	Version string   `json:"version"`
}

// NewService creates a Service validating against cfg.Schema.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Schema == nil {
		return nil, fmt.Errorf("new service: schema is required")
	}

	indexField := cfg.IndexField
	if indexField == "" {
		indexField = samplesheet.DefaultIndexField
	}

	return &Service{
		validator:  NewValidator(cfg.Schema, cfg.Options),
		opts:       cfg.Options,
		parse:      samplesheet.Options{DataSections: cfg.DataSections},
		indexField: indexField,
		v2Columns:  cfg.V2Columns,
		limiter:    NewLimiter(cfg.MaxConcurrent, cfg.MaxWait),
	}, nil
}

// ValidateSheet reads a sheet from r and validates it. A non-nil schema
// replaces the configured one for this call only.
//
// Unreadable or sectionless sheets return an error; every other problem is
// reported in the Result.
func (s *Service) ValidateSheet(ctx context.Context, r io.Reader, schema *Schema) (*Result, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	defer done()

	id := uuid.New().String()
	logger := logging.WithFields(ctx, "validation_id", id)
	start := time.Now()

	doc, err := samplesheet.ParseReader(r, s.parse)
	if err != nil {
		logger.Warn("sheet rejected", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	v := s.validator
	if schema != nil {
		v = NewValidator(schema, s.opts)
	}

	msgs := v.Validate(doc)
	if err := ctx.Err(); err != nil {
		logger.Warn("validation timed out", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("validate: %w", err)
	}
	status, report := Report(msgs)
	if msgs == nil {
		msgs = []string{}
	}

	logger.Info("validation complete",
		"status", status,
		"version", doc.Version.String(),
		"data_section", doc.DataSection,
		"rows", len(doc.Records),
		"errors", len(msgs),
		"duration", time.Since(start),
	)

	return &Result{
		ID:      id,
		Status:  status,
		Report:  report,
		Errors:  msgs,
		Version: doc.Version.String(),
	}, nil
}

// ReverseComplement rewrites the sheet with field reverse-complemented.
// An empty field uses the configured index field.
func (s *Service) ReverseComplement(ctx context.Context, r io.Reader, field string) (string, error) {
	if field == "" {
		field = s.indexField
	}
	return s.transform(ctx, r, func(doc *samplesheet.Document) string {
		logging.FromContext(ctx).Info("reverse complement", "field", field, "rows", len(doc.Records))
		return samplesheet.ReverseComplement(doc, field)
	})
}

// ConvertV1ToV2 rewrites a V1 sheet in the BCL Convert layout.
func (s *Service) ConvertV1ToV2(ctx context.Context, r io.Reader) (string, error) {
	return s.transform(ctx, r, func(doc *samplesheet.Document) string {
		logging.FromContext(ctx).Info("convert v1 to v2", "version", doc.Version.String(), "rows", len(doc.Records))
		return samplesheet.ConvertV1ToV2(doc, s.v2Columns)
	})
}

// transform parses r and applies fn within one limiter slot and
// ValidationTimeout.
func (s *Service) transform(ctx context.Context, r io.Reader, fn func(*samplesheet.Document) string) (string, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return "", fmt.Errorf("transform: %w", err)
	}
	defer done()

	doc, err := samplesheet.ParseReader(r, s.parse)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("transform: %w", err)
	}

	out := fn(doc)
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("transform: %w", err)
	}
	return out, nil
}

// begin takes a limiter slot and bounds ctx by ValidationTimeout. The
// returned func releases both.
func (s *Service) begin(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, ValidationTimeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}

// AllowedColumns returns the header allow-list of the configured schema.
func (s *Service) AllowedColumns() []string {
	return s.validator.AllowedColumns()
}

// LimiterStatus reports validation slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForValidations blocks until in-flight validations finish or ctx ends.
func (s *Service) WaitForValidations(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
