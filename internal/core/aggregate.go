package core

import (
	"math"
	"sort"
)

// Default parameters for the report operations.
const (
	DefaultMinAge = 30
	DefaultTopN   = 3
)

// Count is one group of a count-by-key result.
type Count struct {
	Key   string
	Value int
}

// Counts is a count-by-key result ordered by Key ascending.
type Counts []Count

// FilterByMinAge returns the records whose age parses as an integer and is at
// least threshold. Records with an unparseable age are excluded.
func FilterByMinAge(records []UserRecord, threshold int) []UserRecord {
	out := make([]UserRecord, 0, len(records))
	for _, r := range records {
		if age, ok := r.ParsedAge(); ok && age >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// CountByCountry groups records by their exact country string. The empty
// string is a group like any other.
func CountByCountry(records []UserRecord) Counts {
	return countBy(records, func(r UserRecord) string { return r.Country })
}

// UsersByRegion groups records by RegionFor(country).
func UsersByRegion(records []UserRecord) Counts {
	return countBy(records, func(r UserRecord) string { return RegionFor(r.Country) })
}

// AverageAge returns the mean of all parseable ages rounded to one decimal
// place, or 0 when no age parses. Midpoints round to even at the tenths digit.
func AverageAge(records []UserRecord) float64 {
	sum, n := 0, 0
	for _, r := range records {
		if age, ok := r.ParsedAge(); ok {
			sum += age
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := float64(sum) / float64(n)
	return math.RoundToEven(mean*10) / 10
}

// TopNOldest returns the first n records ordered by age descending.
//
// Unparseable ages rank as -1, so those records sink to the bottom but are
// not excluded. Records of equal age keep their original relative order.
// Fewer than n records are returned when the input is shorter; n <= 0
// returns an empty slice.
func TopNOldest(records []UserRecord, n int) []UserRecord {
	if n <= 0 {
		return []UserRecord{}
	}

	sorted := make([]UserRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].rankAge() > sorted[j].rankAge()
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// countBy counts records per key and returns the groups sorted by key.
func countBy(records []UserRecord, key func(UserRecord) string) Counts {
	grouped := make(map[string]int)
	for _, r := range records {
		grouped[key(r)]++
	}

	counts := make(Counts, 0, len(grouped))
	for k, v := range grouped {
		counts = append(counts, Count{Key: k, Value: v})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Key < counts[j].Key })
	return counts
}
