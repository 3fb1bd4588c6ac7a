// Package samplesheet parses sequencer SampleSheet files into an immutable
// Document and renders the export transforms built on top of it.
//
// A SampleSheet is a section-delimited text file. Each section opens with a
// bracketed line such as "[Header]" or "[Data],,,," and owns every non-blank
// line up to the next bracketed line:
//
//	[Header]
//	IEMFileVersion,4
//	[Reads]
//	151
//	[Data]
//	Lane,Sample_ID,Sample_Name,index,index2
//	1,s1,Sample1,ACGTACGT,TTGGCCAA
//
// Exactly one section holds the sample table. Its name decides the format
// version: "Data" is V1 and "BCLConvert_Data" is V2.
//
// Parsing is deliberately lenient. Cells are split on bare commas (no quoting
// rules), right-trimmed, and zipped against the header, so a short row simply
// produces a record with fewer columns. Validation of the content is the job of
// the core package.
package samplesheet
