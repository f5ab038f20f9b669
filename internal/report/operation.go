// Package report selects report operations and renders engine results.
//
// Text output is deterministic and identical on the command line and over
// HTTP. The summary can also be rendered as an HTML page.
package report

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/userreport/internal/core"
)

// Operation names one report.
type Operation string

const (
	OpSummary Operation = "summary"
	OpFilter  Operation = "filter"
	OpGroup   Operation = "group"
	OpAvg     Operation = "avg"
	OpTop     Operation = "top"
	OpRegion  Operation = "region"
)

// DefaultOperation runs when none is given.
const DefaultOperation = OpSummary

// Operations lists every report in usage order.
var Operations = []Operation{OpSummary, OpFilter, OpGroup, OpAvg, OpTop, OpRegion}

// ParseOperation matches name exactly against Operations. Anything else
// returns an error wrapping core.ErrUnknownOperation.
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownOperation, name)
}

// Names returns the operation names in usage order.
func Names() []string {
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return names
}

// UnknownMessage is the usage line printed for an unrecognized operation.
// extra names additional commands accepted next to the reports.
func UnknownMessage(name string, extra ...string) string {
	choices := append(Names(), extra...)
	return fmt.Sprintf("Unknown operation '%s'. Use %s.", name, strings.Join(choices, "|"))
}
