// Package core error mapping.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code
// to support staff for faster diagnosis.
//
// Typed errors from the transcoder, the finance solver, and the store map
// first; substring patterns cover everything else. Codes are grouped by
// category:
//
//	FILE001 - File too large         FILE002 - Malformed delimited text
//	FILE003 - Encoding error         FILE004 - No file provided
//	FILE005 - Empty file             FILE006 - File unreadable
//	IMP001  - Import cancelled       IMP002  - System busy
//	IMP003  - Job not found          IMP004  - Request cancelled
//	IMP005  - Request timeout
//	SHT001  - Sheet not found        SHT002  - Sheet name missing
//	STM001  - Missing statement items
//	FIN001  - No convergence
//	DB001   - Connection refused     DB002   - Connection reset
//	DB003   - Deadlock
//	RATE001 - Rate limited           ERR000  - Unknown error (fallback)
//
// Patterns are matched case-insensitively with strings.Contains; the
// first match wins, so more specific patterns come before general ones.
// Users reporting ERR000 need the application logs for the original
// technical error.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerport/ledgerport/internal/finance"
	"github.com/ledgerport/ledgerport/internal/statement"
	"github.com/ledgerport/ledgerport/internal/store"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error substrings (case-insensitive) to user
// messages, checked after the typed mappings in MapError. Order matters:
// specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8 and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "sheet name is required",
		msg: UserMessage{
			Message: "No sheet name was given",
			Action:  "Provide a sheet name for the import",
			Code:    "SHT002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Start a new import when ready",
			Code:    "IMP001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Typed
// errors are checked first, then the substring patterns; unmatched errors
// fall back to the generic ERR000 message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTypedError(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTypedError(err error) (UserMessage, bool) {
	var (
		parseErr   *transcode.ParseError
		ioErr      *transcode.IOFailure
		convErr    *finance.ConvergenceFailure
		missingErr *statement.MissingItemsError
	)

	switch {
	case errors.Is(err, transcode.ErrFileTooLarge):
		return UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		}, true

	case errors.As(err, &parseErr):
		return UserMessage{
			Message: fmt.Sprintf("Malformed delimited text at line %d, column %d", parseErr.Line, parseErr.Column),
			Action:  "Check quoting around the reported location and re-export the file",
			Code:    "FILE002",
		}, true

	case errors.As(err, &ioErr):
		return UserMessage{
			Message: "The file could not be read",
			Action:  "Verify the file exists and is readable, then try again",
			Code:    "FILE006",
		}, true

	case errors.As(err, &convErr):
		return UserMessage{
			Message: "The rate calculation did not converge",
			Action:  "Check that the cash flows include both inflows and outflows",
			Code:    "FIN001",
		}, true

	case errors.As(err, &missingErr):
		return UserMessage{
			Message: fmt.Sprintf("Statement is missing required items: %s", strings.Join(missingErr.Items, ", ")),
			Action:  "Add the missing columns or use the statement template",
			Code:    "STM001",
		}, true

	case errors.Is(err, store.ErrSheetNotFound):
		return UserMessage{
			Message: "Sheet not found",
			Action:  "Verify the sheet name is correct",
			Code:    "SHT001",
		}, true

	case errors.Is(err, ErrTooManyImports):
		return UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP002",
		}, true

	case errors.Is(err, ErrJobNotFound):
		return UserMessage{
			Message: "Import job not found",
			Action:  "The job may have expired. Please start a new import",
			Code:    "IMP003",
		}, true

	case errors.Is(err, context.Canceled):
		return UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP004",
		}, true

	case errors.Is(err, context.DeadlineExceeded):
		return UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "IMP005",
		}, true
	}

	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error maps to a specific known message
// rather than the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message. The
// original error stays available for logging via Unwrap.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error into a UserError.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
