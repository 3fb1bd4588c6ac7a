package core

import (
	"testing"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *samplesheet.Document {
	t.Helper()
	doc, err := samplesheet.Parse(raw, samplesheet.Options{})
	require.NoError(t, err)
	return doc
}

func TestDuplicateDetector_Check(t *testing.T) {
	laned := "[Data]\n" +
		"Lane,Sample_ID,Sample_Name,index,index2\n" +
		"1,s1,n1,AAAA,CCCC\n" +
		"1,s2,n2,AAAA,CCCC\n" +
		"2,s3,n1,AAAA,CCCC\n" +
		"2,s3,n3,GGGG,TTTT\n"

	tests := []struct {
		name string
		lane string
		raw  string
		want []string
	}{
		{
			name: "duplicates scoped to lane",
			lane: ColLane,
			raw:  laned,
			want: []string{
				"Duplicate index for lane 1 samples s1, s2: AAAA, CCCC",
				"Duplicate Sample_ID for lane 2: s3",
			},
		},
		{
			name: "lane grouping disabled",
			lane: "",
			raw:  laned,
			want: []string{
				"Duplicate index for samples s1, s2, s3: AAAA, CCCC",
				"Duplicate Sample_ID: s3",
				"Duplicate Sample_Name: n1",
			},
		},
		{
			name: "sheet without lane column",
			lane: ColLane,
			raw: "[Data]\n" +
				"Sample_ID,Sample_Name,index\n" +
				"s1,n1,AAAA\n" +
				"s1,n1,AAAA\n" +
				"s2,n2,CCCC\n",
			want: []string{
				"Duplicte entry found for sample s1",
				"Duplicate index for samples s1, s1: AAAA",
				"Duplicate Sample_ID: s1",
				"Duplicate Sample_Name: n1",
			},
		},
		{
			name: "whole row duplicates reported per repeat",
			lane: ColLane,
			raw: "[Data]\n" +
				"Lane,Sample_ID,index\n" +
				"1,s1,AAAA\n" +
				"1,s1,AAAA\n" +
				"1,s1,AAAA\n",
			want: []string{
				"Duplicte entry found for sample s1",
				"Duplicte entry found for sample s1",
				"Duplicate index for lane 1 samples s1, s1, s1: AAAA",
				"Duplicate Sample_ID for lane 1: s1",
			},
		},
		{
			name: "control bytes inside cells do not merge tuples",
			lane: ColLane,
			raw: "[Data]\n" +
				"Sample_ID,index,index2\n" +
				"s1,A\x1fC,G\n" +
				"s2,A,C\x1fG\n",
			want: nil,
		},
		{
			name: "no index columns",
			lane: ColLane,
			raw: "[Data]\n" +
				"Sample_ID,Sample_Name\n" +
				"s1,n1\n",
			want: []string{"No index lookup column found"},
		},
		{
			name: "clean sheet",
			lane: ColLane,
			raw: "[Data]\n" +
				"Lane,Sample_ID,Sample_Name,index\n" +
				"1,s1,n1,AAAA\n" +
				"2,s1,n1,AAAA\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewDuplicateDetector(tt.lane).Check(mustParse(t, tt.raw))
			for _, e := range errs {
				require.Equal(t, KindDuplicate, e.Kind)
			}

			var got []string
			if len(errs) > 0 {
				got = RenderAll(errs)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Check() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
