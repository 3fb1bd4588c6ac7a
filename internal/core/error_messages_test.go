package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing data section maps correctly",
			err:         &samplesheet.FormatError{Err: samplesheet.ErrNoDataSection},
			wantCode:    "FILE002",
			wantMessage: "No [Data] or [BCLConvert_Data] section was found",
		},
		{
			name:        "empty data section maps correctly",
			err:         fmt.Errorf("%w: [Data]", samplesheet.ErrEmptyDataSection),
			wantCode:    "FILE003",
			wantMessage: "The data section has no header row",
		},
		{
			name:        "missing sheet file maps correctly",
			err:         &samplesheet.FormatError{Path: "run.csv", Err: fmt.Errorf("open run.csv: %w", fs.ErrNotExist)},
			wantCode:    "FILE004",
			wantMessage: "The sheet file does not exist",
		},
		{
			name:        "bare not-exist sentinel maps to not found",
			err:         fs.ErrNotExist,
			wantCode:    "FILE004",
			wantMessage: "The sheet file does not exist",
		},
		{
			name:        "missing schema file maps to schema code",
			err:         &SchemaLoadError{Path: "s.json", Err: fmt.Errorf("open s.json: %w", fs.ErrNotExist)},
			wantCode:    "SCH001",
			wantMessage: "The validation schema could not be loaded",
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "Sheet exceeds the upload size limit",
		},
		{
			name:        "busy limiter maps correctly",
			err:         fmt.Errorf("validate: %w", ErrBusy),
			wantCode:    "UPL001",
			wantMessage: "Too many validations in progress",
		},
		{
			name:        "cancelled request maps correctly",
			err:         fmt.Errorf("validate: %w", context.Canceled),
			wantCode:    "UPL002",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "timeout maps correctly",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL003",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("NO DATA SECTION FOUND"),
			wantCode:    "FILE002",
			wantMessage: "No [Data] or [BCLConvert_Data] section was found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrBusy)

	expected := "Too many validations in progress (Code: UPL001). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  samplesheet.ErrNoDataSection,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
