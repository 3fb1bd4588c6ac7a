package core

import (
	"testing"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleEngine_CheckRow(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		rec     samplesheet.Record
		want    string
	}{
		{
			name: "clean row",
			rec:  samplesheet.Record{"Sample_ID": "s1", "Sample_Name": "n1", "index": "ACGT", "index2": "TTGG", "I5_Index_ID": "D501"},
		},
		{
			name: "id equals name",
			rec:  samplesheet.Record{"Sample_ID": "s1", "Sample_Name": "s1", "index": "ACGT"},
			want: "Same sample id and sample names are not allowed, s1",
		},
		{
			name: "id equals name needs both columns",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "ACGT"},
		},
		{
			name: "i5 id without index2",
			rec:  samplesheet.Record{"Sample_ID": "s1", "Sample_Name": "n1", "index": "ACGT", "I5_Index_ID": "D501", "index2": ""},
			want: "Missing I_5 index sequences for s1",
		},
		{
			name: "i5 id without index2 column",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "ACGT", "I5_Index_ID": "D501"},
			want: "Missing I_5 index sequences for s1",
		},
		{
			name: "10X description without single cell index",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "ACGTACGT", "Description": "10X library"},
			want: "Required I_7 single cell indexes for 10X sample s1",
		},
		{
			name: "keyword match ignores case",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "ACGTACGT", "Description": "chromium 10x v3"},
			want: "Required I_7 single cell indexes for 10X sample s1",
		},
		{
			name: "single cell index without 10X description",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "SI-GA-A1", "Description": "bulk"},
			want: "Found I_7 single cell indexes, missing 10X description sample s1",
		},
		{
			name: "single cell sample with index2",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "SI-TT-B12", "index2": "ACGT", "Description": "10X"},
			want: "Found I_5 index(2) for single cell sample s1",
		},
		{
			name: "single cell sample without index2",
			rec:  samplesheet.Record{"Sample_ID": "s1", "index": "SI-NS-C3", "index2": "", "Description": "10X"},
		},
		{
			name: "several violations joined",
			rec:  samplesheet.Record{"Sample_ID": "s1", "Sample_Name": "s1", "index": "ACGT", "I5_Index_ID": "D501", "Description": "10X"},
			want: "Same sample id and sample names are not allowed, s1\n" +
				"Missing I_5 index sequences for s1\n" +
				"Required I_7 single cell indexes for 10X sample s1",
		},
		{
			name:    "custom keyword",
			keyword: "Chromium",
			rec:     samplesheet.Record{"Sample_ID": "s1", "index": "ACGT", "Description": "chromium run"},
			want:    "Required I_7 single cell indexes for 10X sample s1",
		},
		{
			name:    "custom keyword replaces default",
			keyword: "Chromium",
			rec:     samplesheet.Record{"Sample_ID": "s1", "index": "ACGT", "Description": "10X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewRuleEngine(tt.keyword).CheckRow(tt.rec)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleEngine_Check(t *testing.T) {
	recs := []samplesheet.Record{
		{"Sample_ID": "s1", "Sample_Name": "n1", "index": "ACGT"},
		{"Sample_ID": "s2", "Sample_Name": "s2", "index": "CCGT"},
		{"Sample_ID": "s3", "Sample_Name": "n3", "index": "GGGT", "Description": "10X"},
	}

	errs := NewRuleEngine("").Check(recs)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, KindSemantic, e.Kind)
	}
	assert.Equal(t, "Same sample id and sample names are not allowed, s2", errs[0].Render())
	assert.Equal(t, "Required I_7 single cell indexes for 10X sample s3", errs[1].Render())
}
