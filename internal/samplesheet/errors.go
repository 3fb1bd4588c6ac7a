package samplesheet

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataSection is returned when none of the candidate data section
	// names appear in the sheet.
	ErrNoDataSection = errors.New("no data section found")

	// ErrEmptyDataSection is returned when the data section has no header line.
	ErrEmptyDataSection = errors.New("data section has no header")
)

// FormatError reports a sheet that could not be read or has no usable data
// table. It is fatal: no partial report is produced.
type FormatError struct {
	Path string // Source path, empty when parsing from memory
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("samplesheet %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("samplesheet: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
