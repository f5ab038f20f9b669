// Package core provides the record loader and aggregation engine.
//
// # Error Codes Reference
//
// This file defines user-facing messages with codes for the command line
// diagnostics and the HTTP error bodies. Sentinel errors are matched first
// with errors.Is; remaining errors are matched by text pattern.
//
// # Input Errors (IN001-IN099)
//
//	IN001 - No records: The input is missing or has no data rows
//	        Action: Check the CSV path and that the file has a header and data lines
//	        Sentinel: ErrNoRecords
//
// # Operation Errors (OP001-OP099)
//
//	OP001 - Unknown operation: The requested report does not exist
//	        Action: Use summary, filter, group, avg, top or region
//	        Sentinel: ErrUnknownOperation
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The record source could not be reached
//	         Action: Check DATABASE_URL and that the database is running
//	         Sentinel: ErrSourceUnavailable; Patterns: "connection refused", "no such host"
//
//	SRC002 - Source timeout: Loading records took too long
//	         Action: Raise DB_QUERY_TIMEOUT or check database load
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid configuration: A setting is missing or out of range
//	         Action: Review the environment variables and config file
//	         Patterns: "config load", "config validation"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log output for the original error
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRecords is reported when a source yields zero usable records,
	// including the missing-file case.
	ErrNoRecords = errors.New("no user records loaded")

	// ErrUnknownOperation is reported for an operation outside the fixed set.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrSourceUnavailable wraps failures to reach a record source.
	ErrSourceUnavailable = errors.New("record source unavailable")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages are checked with errors.Is before any text pattern.
var sentinelMessages = []sentinelMessage{
	{
		target: ErrNoRecords,
		msg: UserMessage{
			Message: "No user records were loaded",
			Action:  "Check the CSV path and that the file has a header and data lines",
			Code:    "IN001",
		},
	},
	{
		target: ErrUnknownOperation,
		msg: UserMessage{
			Message: "Unknown report operation",
			Action:  "Use summary, filter, group, avg, top or region",
			Code:    "OP001",
		},
	},
	{
		target: ErrSourceUnavailable,
		msg: UserMessage{
			Message: "The record source could not be reached",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "SRC001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The record source could not be reached",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "SRC001",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "The record source could not be reached",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "SRC001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Loading records took too long",
			Action:  "Raise DB_QUERY_TIMEOUT or check database load",
			Code:    "SRC002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Loading records took too long",
			Action:  "Raise DB_QUERY_TIMEOUT or check database load",
			Code:    "SRC002",
		},
	},
	{
		pattern: "config load",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Review the environment variables and config file",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Review the environment variables and config file",
			Code:    "CFG001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for the original error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := fmt.Errorf("load: %w", ErrNoRecords)
//	msg := MapError(err)
//	// msg.Code == "IN001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
