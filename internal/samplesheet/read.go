package samplesheet

// read.go decodes raw sheet bytes before section parsing.
//
// Sheets are routinely exported from Excel on Windows, so two artifacts are
// handled on the way in:
//
//   - a leading UTF-8 BOM (0xEF 0xBB 0xBF), which would otherwise end up glued
//     to the first section name
//   - invalid UTF-8 sequences, which are replaced with U+FFFD so that a stray
//     Latin-1 byte in a Description cell does not abort the whole parse

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that reads yield BOM-free, valid UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadText reads all of r through NewTextReader.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(NewTextReader(r))
	if err != nil {
		return "", fmt.Errorf("read sheet: %w", err)
	}
	return string(data), nil
}
