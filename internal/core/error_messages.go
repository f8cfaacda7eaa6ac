package core

// error_messages.go maps the core error taxonomy to user-friendly messages
// with codes for support reference. When users encounter errors, they can
// quote the error code for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The session does not exist or was evicted
//	         after being idle
//	         Action: Upload the dataset again to start a new session
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Column not found: A named column is not in the current dataset
//	         Action: Refresh the column list; a prior step may have removed it
//
//	SEL002 - Empty selection: No columns were selected for the operation
//	         Action: Select at least one column
//
// # Operation Errors (OPS001-OPS099)
//
//	OPS001 - Invalid strategy: Unknown missing-value strategy
//	         Action: Use mean, median, mode, constant or drop
//
//	OPS002 - Invalid method: Unknown method, or a method applied to a
//	         column of the wrong type
//	         Action: Check the method name and the column types
//
//	OPS003 - Already encoded: The request would encode a column twice
//	         Action: List each column at most once
//
// # History Errors (HIS001-HIS099)
//
//	HIS001 - No history: Nothing to undo or redo at the current version
//	         Action: No action needed; the pointer is at the end of history
//
// # Default Error (ERR000)
//
// Fallback when the error is not part of the core taxonomy:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Review the suggested action to guide the user
//  3. If ERR000, check application logs for the original technical error

import "errors"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// MapError converts a technical error into a user-friendly message.
// The core taxonomy is closed, so mapping is by sentinel rather than by
// string pattern; anything outside it falls through to ERR000.
func MapError(err error) UserMessage {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return UserMessage{
			Message: "The session does not exist or has expired",
			Action:  "Upload the dataset again to start a new session",
			Code:    "SES001",
		}
	case errors.Is(err, ErrColumnNotFound):
		return UserMessage{
			Message: "A selected column is not in the current dataset",
			Action:  "Refresh the column list; a prior step may have removed it",
			Code:    "SEL001",
		}
	case errors.Is(err, ErrEmptySelection):
		return UserMessage{
			Message: "No columns were selected for this operation",
			Action:  "Select at least one column",
			Code:    "SEL002",
		}
	case errors.Is(err, ErrInvalidStrategy):
		return UserMessage{
			Message: "Unknown missing-value strategy",
			Action:  "Use mean, median, mode, constant or drop",
			Code:    "OPS001",
		}
	case errors.Is(err, ErrInvalidMethod):
		return UserMessage{
			Message: "Unknown method, or the method does not fit the column type",
			Action:  "Check the method name and the column types",
			Code:    "OPS002",
		}
	case errors.Is(err, ErrAlreadyEncoded):
		return UserMessage{
			Message: "The request would encode the same column twice",
			Action:  "List each column at most once",
			Code:    "OPS003",
		}
	case errors.Is(err, ErrNoHistory):
		return UserMessage{
			Message: "Nothing to undo or redo",
			Action:  "No action needed; you are at the end of history",
			Code:    "HIS001",
		}
	default:
		return UserMessage{
			Message: "An unexpected error occurred",
			Action:  "Please try again or contact support",
			Code:    "ERR000",
		}
	}
}
