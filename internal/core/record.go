package core

import "strconv"

// UserRecord is one parsed data row. All fields are kept as text exactly as
// they appeared in the source (after trimming); Age is not guaranteed numeric.
//
// Field order matches the column order used by the Postgres source so rows
// can be collected positionally.
type UserRecord struct {
	Name    string
	Age     string
	Country string
}

// ParsedAge returns the age as an integer and whether it parsed as a 32-bit
// signed integer. A record whose age does not parse is absent from numeric
// aggregations.
func (u UserRecord) ParsedAge() (int, bool) {
	age, err := strconv.ParseInt(u.Age, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(age), true
}

// rankAge is the age used for ordering: unparseable ages rank as -1 so they
// sort below every valid age.
func (u UserRecord) rankAge() int {
	if age, ok := u.ParsedAge(); ok {
		return age
	}
	return -1
}
