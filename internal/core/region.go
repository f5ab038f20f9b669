package core

// Region names. RegionOther covers every country outside the fixed table,
// including the empty string.
const (
	RegionEurope       = "Europe"
	RegionNorthAmerica = "North America"
	RegionSouthAmerica = "South America"
	RegionAsia         = "Asia"
	RegionOceania      = "Oceania"
	RegionOther        = "Other"
)

// RegionFor maps an exact country name to its region. The table is fixed.
func RegionFor(country string) string {
	switch country {
	case "Finland", "Germany", "France", "UK":
		return RegionEurope
	case "USA", "Canada":
		return RegionNorthAmerica
	case "Brazil":
		return RegionSouthAmerica
	case "India", "Japan":
		return RegionAsia
	case "Australia":
		return RegionOceania
	default:
		return RegionOther
	}
}
