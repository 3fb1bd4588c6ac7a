// Package core validates parsed SampleSheets and maps failures to
// user-facing messages.
//
// # Error Codes Reference
//
// Fatal errors (the sheet or schema could not be used at all) are mapped to a
// UserMessage with a code that callers can quote to support staff. Non-fatal
// findings never go through this table; they are returned in the validation
// report instead.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: Sheet exceeds the upload size limit
//	          Action: Split the run into smaller sheets
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - No data section: Neither [Data] nor [BCLConvert_Data] was found
//	          Action: Add a [Data] section with a header row
//	          Patterns: "no data section found"
//
//	FILE003 - Empty data section: The data section has no header row
//	          Action: Add the column header line under the data section
//	          Patterns: "data section has no header"
//
//	FILE004 - Not found: The sheet file does not exist
//	          Action: Check the path and try again
//	          Patterns: "no such file", or any error wrapping fs.ErrNotExist
//
//	FILE005 - No file: No sheet was provided
//	          Action: Please select a SampleSheet to upload
//	          Patterns: "no file provided"
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Schema unavailable: The validation schema could not be loaded
//	         Action: Check SCHEMA_PATH and the schema JSON
//	         Patterns: "load schema"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: Too many validations in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent validations"
//
//	UPL002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL003 - Request timeout: Request timed out
//	         Action: Try again or upload a smaller sheet
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Schema errors
	{
		pattern: "load schema",
		msg: UserMessage{
			Message: "The validation schema could not be loaded",
			Action:  "Check SCHEMA_PATH and the schema JSON",
			Code:    "SCH001",
		},
	},

	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Sheet exceeds the upload size limit",
			Action:  "Split the run into smaller sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Sheet exceeds the upload size limit",
			Action:  "Split the run into smaller sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no data section found",
		msg: UserMessage{
			Message: "No [Data] or [BCLConvert_Data] section was found",
			Action:  "Add a [Data] section with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "data section has no header",
		msg: UserMessage{
			Message: "The data section has no header row",
			Action:  "Add the column header line under the data section",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no such file",
		msg:     notFoundMessage,
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No sheet was provided",
			Action:  "Please select a SampleSheet to upload",
			Code:    "FILE005",
		},
	},

	// Upload errors
	{
		pattern: "too many concurrent validations",
		msg: UserMessage{
			Message: "Too many validations in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or upload a smaller sheet",
			Code:    "UPL003",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var notFoundMessage = UserMessage{
	Message: "The sheet file does not exist",
	Action:  "Check the path and try again",
	Code:    "FILE004",
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.Is(err, fs.ErrNotExist) {
		return notFoundMessage
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
