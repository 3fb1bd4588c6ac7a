package core

// duplicates.go finds repeated samples in the data table.
//
// Four independent checks run in order:
//  1. Whole-row duplicates across the table
//  2. Shared index tuples (index, index2) within a lane
//  3. Repeated Sample_ID values within a lane
//  4. Repeated Sample_Name values within a lane
//
// When the sheet has no lane column the whole table is one group and lane is
// left out of the messages.

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
)

// DuplicateDetector reports duplicated rows, indexes, sample ids and names.
type DuplicateDetector struct {
	// LaneColumn scopes the index, id and name checks. Empty or absent from the
	// header means one group for the whole table.
	LaneColumn string
}

// NewDuplicateDetector returns a detector grouping by laneColumn.
func NewDuplicateDetector(laneColumn string) *DuplicateDetector {
	return &DuplicateDetector{LaneColumn: laneColumn}
}

// laneGroup is the records sharing one lane value, in file order.
type laneGroup struct {
	lane    string
	records []samplesheet.Record
}

// Check runs every duplicate check over doc.
func (d *DuplicateDetector) Check(doc *samplesheet.Document) []ValidationError {
	errs := d.rowDuplicates(doc)

	groups, laned := d.groups(doc)
	errs = append(errs, d.indexDuplicates(doc, groups, laned)...)
	for _, col := range []string{ColSampleID, ColSampleName} {
		if doc.HasColumn(col) {
			errs = append(errs, valueDuplicates(col, groups, laned)...)
		}
	}
	return errs
}

// rowDuplicates reports every row identical to an earlier one.
func (d *DuplicateDetector) rowDuplicates(doc *samplesheet.Document) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]struct{}, len(doc.Records))

	for _, rec := range doc.Records {
		key, _ := rowKey(rec, doc.Header)
		if _, dup := seen[key]; dup {
			errs = append(errs, Raw(KindDuplicate, "Duplicte entry found for sample %s", rec.Value(ColSampleID)))
			continue
		}
		seen[key] = struct{}{}
	}
	return errs
}

// groups splits the records by lane, ordered by first appearance.
func (d *DuplicateDetector) groups(doc *samplesheet.Document) ([]laneGroup, bool) {
	if d.LaneColumn == "" || !doc.HasColumn(d.LaneColumn) {
		return []laneGroup{{records: doc.Records}}, false
	}

	var groups []laneGroup
	pos := make(map[string]int)
	for _, rec := range doc.Records {
		lane := rec.Value(d.LaneColumn)
		i, ok := pos[lane]
		if !ok {
			i = len(groups)
			pos[lane] = i
			groups = append(groups, laneGroup{lane: lane})
		}
		groups[i].records = append(groups[i].records, rec)
	}
	return groups, true
}

// indexDuplicates reports index tuples shared by more than one sample in a lane.
func (d *DuplicateDetector) indexDuplicates(doc *samplesheet.Document, groups []laneGroup, laned bool) []ValidationError {
	var cols []string
	for _, c := range []string{ColIndex, ColIndex2} {
		if doc.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return []ValidationError{Raw(KindDuplicate, "No index lookup column found")}
	}

	var errs []ValidationError
	for _, g := range groups {
		var order []string
		ids := make(map[string][]string)
		tuples := make(map[string][]string)
		for _, rec := range g.records {
			key, vals := rowKey(rec, cols)
			if _, ok := ids[key]; !ok {
				order = append(order, key)
				tuples[key] = vals
			}
			ids[key] = append(ids[key], rec.Value(ColSampleID))
		}

		for _, key := range order {
			if len(ids[key]) < 2 {
				continue
			}
			samples := strings.Join(ids[key], ", ")
			values := strings.Join(tuples[key], ", ")
			if laned {
				errs = append(errs, Raw(KindDuplicate, "Duplicate index for lane %s samples %s: %s", g.lane, samples, values))
			} else {
				errs = append(errs, Raw(KindDuplicate, "Duplicate index for samples %s: %s", samples, values))
			}
		}
	}
	return errs
}

// valueDuplicates reports, per lane, every value of col that occurs more than once.
func valueDuplicates(col string, groups []laneGroup, laned bool) []ValidationError {
	var errs []ValidationError
	for _, g := range groups {
		counts := make(map[string]int)
		var order []string
		for _, rec := range g.records {
			v := rec.Value(col)
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}

		var dups []string
		for _, v := range order {
			if counts[v] > 1 {
				dups = append(dups, v)
			}
		}
		if len(dups) == 0 {
			continue
		}

		if laned {
			errs = append(errs, Raw(KindDuplicate, "Duplicate %s for lane %s: %s", col, g.lane, strings.Join(dups, ", ")))
		} else {
			errs = append(errs, Raw(KindDuplicate, "Duplicate %s: %s", col, strings.Join(dups, ", ")))
		}
	}
	return errs
}

// rowKey builds a lookup key from the record's values for cols and returns
// the values it was built from. Each value is quoted, so distinct tuples
// never share a key. Missing values count as empty.
func rowKey(rec samplesheet.Record, cols []string) (string, []string) {
	vals := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = rec.Value(c)
		quoted[i] = strconv.Quote(vals[i])
	}
	return strings.Join(quoted, ","), vals
}
