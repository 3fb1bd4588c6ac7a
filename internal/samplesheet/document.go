package samplesheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version identifies the SampleSheet layout.
type Version int

const (
	VersionUnknown Version = iota
	V1
	V2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1"
	case V2:
		return "V2"
	default:
		return "Unknown"
	}
}

// Data section names, in the order they are tried by default.
const (
	SectionDataV1 = "Data"
	SectionDataV2 = "BCLConvert_Data"
)

// DefaultDataSections is the candidate list used when Options.DataSections is empty.
var DefaultDataSections = []string{SectionDataV1, SectionDataV2}

// versionOf maps a data section name to the layout it implies.
func versionOf(name string) Version {
	switch name {
	case SectionDataV1:
		return V1
	case SectionDataV2:
		return V2
	default:
		return VersionUnknown
	}
}

// Options controls how the data table is located.
type Options struct {
	// DataSections lists candidate data section names in priority order.
	DataSections []string
}

func (o Options) candidates() []string {
	if len(o.DataSections) == 0 {
		return DefaultDataSections
	}
	return o.DataSections
}

// Record is one sample row keyed by column name.
// Columns beyond the end of a short row are absent, not empty.
type Record map[string]string

// Get returns the value for col and whether the row carried it.
func (r Record) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Value returns the value for col, or "" when absent.
func (r Record) Value(col string) string {
	return r[col]
}

// Document is a parsed SampleSheet. It is built once by Parse and must be
// treated as read-only afterwards; every validator and transform is a pure
// function over it.
type Document struct {
	// Sections holds every section except the selected data section, in file order.
	Sections []Section

	// DataSection is the name of the section the table was read from.
	DataSection string

	// Header is the data table header. Duplicate names are kept.
	Header []string

	// Records holds one entry per data row, in file order.
	Records []Record

	// Version is derived from DataSection.
	Version Version

	candidates []string
}

// Section returns the non-data section with the given name.
func (d *Document) Section(name string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// HasColumn reports whether col appears in the data header.
func (d *Document) HasColumn(col string) bool {
	for _, h := range d.Header {
		if h == col {
			return true
		}
	}
	return false
}

// isDataSection reports whether name is one of the candidate data section names.
func (d *Document) isDataSection(name string) bool {
	for _, c := range d.candidates {
		if c == name {
			return true
		}
	}
	return false
}

// Parse builds a Document from raw sheet text.
func Parse(raw string, opts Options) (*Document, error) {
	sections := ParseSections(raw)

	dataIdx := -1
	var dataName string
	for _, name := range opts.candidates() {
		for i, s := range sections {
			if s.Name == name {
				dataIdx, dataName = i, name
				break
			}
		}
		if dataIdx >= 0 {
			break
		}
	}
	if dataIdx < 0 {
		return nil, &FormatError{Err: ErrNoDataSection}
	}

	data := sections[dataIdx]
	if len(data.Lines) == 0 {
		return nil, &FormatError{Err: fmt.Errorf("%w: [%s]", ErrEmptyDataSection, dataName)}
	}

	doc := &Document{
		DataSection: dataName,
		Header:      strings.Split(data.Lines[0], ","),
		Version:     versionOf(dataName),
		candidates:  append([]string(nil), opts.candidates()...),
	}
	doc.Sections = make([]Section, 0, len(sections)-1)
	doc.Sections = append(doc.Sections, sections[:dataIdx]...)
	doc.Sections = append(doc.Sections, sections[dataIdx+1:]...)

	doc.Records = make([]Record, 0, len(data.Lines)-1)
	for _, line := range data.Lines[1:] {
		doc.Records = append(doc.Records, buildRecord(doc.Header, line))
	}

	return doc, nil
}

// buildRecord zips a row against the header, stopping at the shorter of the two.
func buildRecord(header []string, line string) Record {
	cells := strings.Split(line, ",")
	n := len(header)
	if len(cells) < n {
		n = len(cells)
	}

	rec := make(Record, n)
	for i := 0; i < n; i++ {
		rec[header[i]] = strings.TrimRight(cells[i], " \t\r\n")
	}
	return rec
}

// ParseReader reads a whole sheet from r and parses it.
// A UTF-8 BOM is dropped and invalid byte sequences are replaced.
func ParseReader(r io.Reader, opts Options) (*Document, error) {
	raw, err := ReadText(r)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	return Parse(raw, opts)
}

// ParseFile reads and parses the sheet at path.
func ParseFile(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := ParseReader(f, opts)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return doc, nil
}
