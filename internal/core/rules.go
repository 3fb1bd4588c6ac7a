package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
)

// Column names the rule engine and duplicate detector read.
const (
	ColSampleID    = "Sample_ID"
	ColSampleName  = "Sample_Name"
	ColIndex       = "index"
	ColIndex2      = "index2"
	ColI5IndexID   = "I5_Index_ID"
	ColDescription = "Description"
	ColLane        = "Lane"
)

// DefaultSingleCellKeyword marks a single-cell library in the Description column.
const DefaultSingleCellKeyword = "10X"

// singleCellIndex matches 10x Genomics sample index set names such as SI-GA-A1.
var singleCellIndex = regexp.MustCompile(`^SI-[GNT][ATNS]-[A-Z][0-9]+`)

// RuleEngine applies per-row rules that a JSON Schema cannot express.
type RuleEngine struct {
	keyword *regexp.Regexp
}

// NewRuleEngine builds a rule engine that flags single-cell rows whose
// Description contains keyword, case-insensitively. An empty keyword uses
// DefaultSingleCellKeyword.
func NewRuleEngine(keyword string) *RuleEngine {
	if keyword == "" {
		keyword = DefaultSingleCellKeyword
	}
	return &RuleEngine{
		keyword: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword)),
	}
}

// CheckRow returns the rule violations for one record joined by newlines,
// and false when the record is clean.
func (e *RuleEngine) CheckRow(rec samplesheet.Record) (string, bool) {
	var msgs []string

	id, hasID := rec.Get(ColSampleID)
	name, hasName := rec.Get(ColSampleName)
	if hasID && hasName && id == name {
		msgs = append(msgs, fmt.Sprintf("Same sample id and sample names are not allowed, %s", id))
	}

	index2 := rec.Value(ColIndex2)
	if rec.Value(ColI5IndexID) != "" && index2 == "" {
		msgs = append(msgs, fmt.Sprintf("Missing I_5 index sequences for %s", id))
	}

	flagged := e.keyword.MatchString(rec.Value(ColDescription))
	scIndex := singleCellIndex.MatchString(rec.Value(ColIndex))
	switch {
	case flagged && !scIndex:
		msgs = append(msgs, fmt.Sprintf("Required I_7 single cell indexes for 10X sample %s", id))
	case scIndex && !flagged:
		msgs = append(msgs, fmt.Sprintf("Found I_7 single cell indexes, missing 10X description sample %s", id))
	case flagged && scIndex && index2 != "":
		msgs = append(msgs, fmt.Sprintf("Found I_5 index(2) for single cell sample %s", id))
	}

	if len(msgs) == 0 {
		return "", false
	}
	return strings.Join(msgs, "\n"), true
}

// Check runs CheckRow over every record.
func (e *RuleEngine) Check(records []samplesheet.Record) []ValidationError {
	var errs []ValidationError
	for _, rec := range records {
		if msg, ok := e.CheckRow(rec); ok {
			errs = append(errs, ValidationError{Kind: KindSemantic, Message: msg})
		}
	}
	return errs
}
