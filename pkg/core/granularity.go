package core

// Granularity is a time-bucketing unit.
// The set is closed: every dialect rule switches over all values exhaustively.
type Granularity int

// Granularity values, ordered from finest to coarsest.
const (
	GranularitySecond Granularity = iota
	GranularityMinute
	GranularityHour
	GranularityDay
	GranularityWeek
	GranularityMonth
	GranularityQuarter
	GranularityYear
)

// Granularities lists every supported granularity, finest first.
var Granularities = []Granularity{
	GranularitySecond,
	GranularityMinute,
	GranularityHour,
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
	GranularityQuarter,
	GranularityYear,
}

// String returns the lower-case name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularitySecond:
		return "second"
	case GranularityMinute:
		return "minute"
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	case GranularityQuarter:
		return "quarter"
	case GranularityYear:
		return "year"
	default:
		return "unknown"
	}
}

// Valid reports whether g is one of the known granularities.
func (g Granularity) Valid() bool {
	return g >= GranularitySecond && g <= GranularityYear
}

// ParseGranularity converts an external granularity name into a Granularity.
// Names are matched exactly, so "DAY" and " week " are rejected.
func ParseGranularity(name string) (Granularity, error) {
	switch name {
	case "second":
		return GranularitySecond, nil
	case "minute":
		return GranularityMinute, nil
	case "hour":
		return GranularityHour, nil
	case "day":
		return GranularityDay, nil
	case "week":
		return GranularityWeek, nil
	case "month":
		return GranularityMonth, nil
	case "quarter":
		return GranularityQuarter, nil
	case "year":
		return GranularityYear, nil
	default:
		return 0, &UnsupportedGranularityError{Value: name}
	}
}

// GranularityNames returns the names of all supported granularities.
func GranularityNames() []string {
	names := make([]string, len(Granularities))
	for i, g := range Granularities {
		names[i] = g.String()
	}
	return names
}
