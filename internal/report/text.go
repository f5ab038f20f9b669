package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/userreport/internal/core"
)

// Params are the tunable inputs of the reports.
type Params struct {
	MinAge int
	TopN   int
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{MinAge: core.DefaultMinAge, TopN: core.DefaultTopN}
}

// Summary gathers every engine result over one record sequence.
type Summary struct {
	Params    Params
	Total     int
	Filtered  int
	ByCountry core.Counts
	Average   float64
	Oldest    []core.UserRecord
	ByRegion  core.Counts
}

// Summarize runs all aggregations over records.
func Summarize(records []core.UserRecord, p Params) Summary {
	return Summary{
		Params:    p,
		Total:     len(records),
		Filtered:  len(core.FilterByMinAge(records, p.MinAge)),
		ByCountry: core.CountByCountry(records),
		Average:   core.AverageAge(records),
		Oldest:    core.TopNOldest(records, p.TopN),
		ByRegion:  core.UsersByRegion(records),
	}
}

// FormatAverage prints an average in its shortest form: 35 for 35.0 and
// 35.5 for 35.5.
func FormatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', -1, 64)
}

// Render writes the text rendering of op over records to w.
func Render(w io.Writer, op Operation, records []core.UserRecord, p Params) error {
	bw := bufio.NewWriter(w)

	switch op {
	case OpSummary:
		writeSummary(bw, Summarize(records, p))
	case OpFilter:
		fmt.Fprintf(bw, "Filtered count: %d\n", len(core.FilterByMinAge(records, p.MinAge)))
	case OpGroup:
		bw.WriteString("Users per country:\n")
		writeCounts(bw, core.CountByCountry(records))
	case OpAvg:
		fmt.Fprintf(bw, "Average age: %s\n", FormatAverage(core.AverageAge(records)))
	case OpTop:
		for _, u := range core.TopNOldest(records, p.TopN) {
			fmt.Fprintf(bw, "%s (%s)\n", u.Name, u.Age)
		}
	case OpRegion:
		bw.WriteString("Users per region:\n")
		writeCounts(bw, core.UsersByRegion(records))
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownOperation, string(op))
	}

	return bw.Flush()
}

func writeSummary(w *bufio.Writer, s Summary) {
	fmt.Fprintf(w, "Total users: %d\n", s.Total)
	fmt.Fprintf(w, "Filtered count: %d\n", s.Filtered)
	w.WriteString("Users per country:\n")
	writeCounts(w, s.ByCountry)
	fmt.Fprintf(w, "Average age: %s\n", FormatAverage(s.Average))
	fmt.Fprintf(w, "Top %d oldest users:\n", s.Params.TopN)
	for _, u := range s.Oldest {
		fmt.Fprintf(w, "  %s (%s)\n", u.Name, u.Age)
	}
	w.WriteString("Users per region:\n")
	writeCounts(w, s.ByRegion)
}

func writeCounts(w *bufio.Writer, counts core.Counts) {
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Key, c.Value)
	}
}
