// Package core provides the record loader and the aggregation engine for
// user reports.
//
// This package holds all domain logic independent of any transport. It is
// used by the command line, the report server and tests without
// modification.
//
// # Loading
//
// [LoadFile] and [Parse] turn a comma-delimited text source into an ordered
// slice of [UserRecord]. The header line decides where the name, age and
// country columns are; any other columns are ignored:
//
//	Country,Name,Age
//	Peru,Ana,22
//
// loads as UserRecord{Name: "Ana", Age: "22", Country: "Peru"}. Short lines
// yield empty fields instead of errors, and a missing file yields an empty
// slice plus an error log line naming the absolute path.
//
// # Aggregation
//
// The engine functions are pure. They never mutate their input and always
// allocate fresh results, so one loaded slice can be shared by concurrent
// callers:
//
//   - [FilterByMinAge]: records with a parseable age >= threshold
//   - [CountByCountry], [UsersByRegion]: [Counts] ordered by key
//   - [AverageAge]: mean of parseable ages, one decimal
//   - [TopNOldest]: stable descending rank, unparseable ages last
//   - [RegionFor]: fixed country to region table
//
// An age that does not parse is skipped by numeric aggregations but still
// counted by the grouping ones, which only look at the country text.
//
// # Error Handling
//
// Domain failures are sentinel errors ([ErrNoRecords], [ErrUnknownOperation],
// [ErrSourceUnavailable]) wrapped with %w. [MapError] turns any error into a
// coded [UserMessage] for display.
package core
