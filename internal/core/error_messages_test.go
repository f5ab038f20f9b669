package core

import (
	"errors"
	"fmt"
	"testing"
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
			name:        "no records sentinel",
			err:         ErrNoRecords,
			wantCode:    "IN001",
			wantMessage: "No user records were loaded",
		},
		{
			name:        "wrapped no records sentinel",
			err:         fmt.Errorf("load users.csv: %w", ErrNoRecords),
			wantCode:    "IN001",
			wantMessage: "No user records were loaded",
		},
		{
			name:        "unknown operation sentinel",
			err:         fmt.Errorf("%w: %q", ErrUnknownOperation, "median"),
			wantCode:    "OP001",
			wantMessage: "Unknown report operation",
		},
		{
			name:        "source unavailable sentinel wins over pattern",
			err:         fmt.Errorf("%w: timeout", ErrSourceUnavailable),
			wantCode:    "SRC001",
			wantMessage: "The record source could not be reached",
		},
		{
			name:        "connection refused pattern",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "SRC001",
			wantMessage: "The record source could not be reached",
		},
		{
			name:        "deadline pattern",
			err:         errors.New("query users: context deadline exceeded"),
			wantCode:    "SRC002",
			wantMessage: "Loading records took too long",
		},
		{
			name:        "config pattern",
			err:         errors.New("config validation: validation failed"),
			wantCode:    "CFG001",
			wantMessage: "Invalid configuration",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("CONNECTION REFUSED"),
			wantCode:    "SRC001",
			wantMessage: "The record source could not be reached",
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
	result := FormatUserError(ErrNoRecords)

	expected := "No user records were loaded (Code: IN001). Check the CSV path and that the file has a header and data lines"
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
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "sentinel is user facing", err: ErrUnknownOperation, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
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
