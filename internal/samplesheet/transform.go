package samplesheet

import (
	"strings"
)

// DefaultIndexField is the column ReverseComplement rewrites by default.
const DefaultIndexField = "index2"

// DefaultV2Columns is the column allow-list used by ConvertV1ToV2.
var DefaultV2Columns = []string{"Sample_ID", "index", "index2", "Sample_Project"}

// v2Settings is the fixed BCLConvert_Settings block written by ConvertV1ToV2.
var v2Settings = []string{
	"CreateFastqForIndexReads,1",
	"MinimumTrimmedReadLength,8",
	"FastqCompressionFormat,gzip",
	"MaskShortReads,8",
	"OverrideCycles,Y_READ1_;I_INDEX1_;I_INDEX2_;Y_READ2_",
}

// droppedV1Sections are the V1 sections replaced by fixed V2 blocks.
var droppedV1Sections = map[string]bool{
	"Settings": true,
	"Header":   true,
	"Reads":    true,
}

var complement = strings.NewReplacer(
	"A", "T", "T", "A",
	"C", "G", "G", "C",
)

// ReverseComplementSequence upper-cases seq, swaps A/T and C/G, and reverses
// the result. Other characters (N, dashes) pass through unchanged.
func ReverseComplementSequence(seq string) string {
	comp := []rune(complement.Replace(strings.ToUpper(seq)))
	for i, j := 0, len(comp)-1; i < j; i, j = i+1, j-1 {
		comp[i], comp[j] = comp[j], comp[i]
	}
	return string(comp)
}

// ReverseComplement renders doc with every value of field reverse-complemented.
// The header sections are copied verbatim and the table is written under
// [Data]. If field is not a column the table is written unchanged.
func ReverseComplement(doc *Document, field string) string {
	if field == "" {
		field = DefaultIndexField
	}
	rewrite := doc.HasColumn(field)

	var b strings.Builder
	for _, s := range doc.Sections {
		writeSection(&b, s.Name, s.Lines)
	}

	writeLine(&b, "["+SectionDataV1+"]")
	writeLine(&b, strings.Join(doc.Header, ","))
	for _, rec := range doc.Records {
		cells := make([]string, len(doc.Header))
		for i, col := range doc.Header {
			v := rec.Value(col)
			if rewrite && col == field {
				v = ReverseComplementSequence(v)
			}
			cells[i] = v
		}
		writeLine(&b, strings.Join(cells, ","))
	}

	return b.String()
}

// ConvertV1ToV2 projects doc onto the BCL Convert (V2) layout.
//
// Settings, Header, Reads and any data section are replaced by fixed V2
// blocks; other sections are kept as-is. The table keeps only the header
// columns that appear in columns, in their original order.
func ConvertV1ToV2(doc *Document, columns []string) string {
	if len(columns) == 0 {
		columns = DefaultV2Columns
	}
	allowed := make(map[string]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}

	var b strings.Builder
	for _, s := range doc.Sections {
		if droppedV1Sections[s.Name] || doc.isDataSection(s.Name) {
			continue
		}
		writeSection(&b, s.Name, s.Lines)
	}

	writeSection(&b, "Header", []string{"FileFormatVersion,2"})
	writeSection(&b, "BCLConvert_Settings", v2Settings)

	var kept []string
	for _, col := range doc.Header {
		if allowed[col] {
			kept = append(kept, col)
		}
	}

	writeLine(&b, "["+SectionDataV2+"]")
	writeLine(&b, strings.Join(kept, ","))
	for _, rec := range doc.Records {
		cells := make([]string, len(kept))
		for i, col := range kept {
			cells[i] = rec.Value(col)
		}
		writeLine(&b, strings.Join(cells, ","))
	}

	return b.String()
}

// writeSection writes a bracketed section. The unnamed preamble is written
// without a bracket line.
func writeSection(b *strings.Builder, name string, lines []string) {
	if name != "" {
		writeLine(b, "["+name+"]")
	}
	for _, l := range lines {
		writeLine(b, l)
	}
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteByte('\n')
}
