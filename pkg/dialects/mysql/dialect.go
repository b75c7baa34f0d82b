package mysql

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL SQL dialect.
var MySQL = dialect.New(Config).
	TimeGroupedColumn(TimeGroupedColumn).
	AddInterval(AddInterval).
	SubtractInterval(SubtractInterval).
	ConvertTz(ConvertTz).
	TimeStampCast(TimeStampCast).
	Templates(Templates...).
	Build()

// DateFormat returns the DATE_FORMAT pattern that floors a timestamp to g.
// Week and quarter have no pattern.
func DateFormat(g core.Granularity) (string, bool) {
	switch g {
	case core.GranularitySecond:
		return "%Y-%m-%dT%H:%i:%S.000", true
	case core.GranularityMinute:
		return "%Y-%m-%dT%H:%i:00.000", true
	case core.GranularityHour:
		return "%Y-%m-%dT%H:00:00.000", true
	case core.GranularityDay:
		return "%Y-%m-%dT00:00:00.000", true
	case core.GranularityMonth:
		return "%Y-%m-01T00:00:00.000", true
	case core.GranularityYear:
		return "%Y-01-01T00:00:00.000", true
	default:
		return "", false
	}
}

// TimeGroupedColumn buckets with DATE_FORMAT, WEEKDAY for weeks and
// MAKEDATE/QUARTER for quarters.
func TimeGroupedColumn(g core.Granularity, dimension string) (string, error) {
	var bucket string
	switch g {
	case core.GranularitySecond, core.GranularityMinute, core.GranularityHour,
		core.GranularityDay, core.GranularityMonth, core.GranularityYear:
		pattern, _ := DateFormat(g)
		bucket = fmt.Sprintf("DATE_FORMAT(%s, '%s')", dimension, pattern)
	case core.GranularityWeek:
		bucket = fmt.Sprintf("DATE_FORMAT(DATE_SUB(%s, INTERVAL WEEKDAY(%s) DAY), '%%Y-%%m-%%dT00:00:00.000')", dimension, dimension)
	case core.GranularityQuarter:
		bucket = fmt.Sprintf("MAKEDATE(YEAR(%s), 1) + INTERVAL (QUARTER(%s) - 1) QUARTER", dimension, dimension)
	default:
		return "", dialect.UnsupportedGranularity(g)
	}
	return "CAST(" + bucket + " AS DATETIME)", nil
}

// AddInterval adds a normalized interval.
func AddInterval(date, interval string) string {
	return fmt.Sprintf("DATE_ADD(%s, INTERVAL %s)", date, FormatInterval(interval))
}

// SubtractInterval subtracts a normalized interval.
func SubtractInterval(date, interval string) string {
	return fmt.Sprintf("DATE_SUB(%s, INTERVAL %s)", date, FormatInterval(interval))
}

var intervalUnits = map[string]string{
	"second": "SECOND", "seconds": "SECOND",
	"minute": "MINUTE", "minutes": "MINUTE",
	"hour": "HOUR", "hours": "HOUR",
	"day": "DAY", "days": "DAY",
	"week": "WEEK", "weeks": "WEEK",
	"month": "MONTH", "months": "MONTH",
	"quarter": "QUARTER", "quarters": "QUARTER",
	"year": "YEAR", "years": "YEAR",
}

// FormatInterval turns "2 months" into "2 MONTH". Anything that is not a
// single "<quantity> <unit>" pair is returned unchanged.
func FormatInterval(interval string) string {
	parts := strings.Fields(interval)
	if len(parts) != 2 {
		return interval
	}
	unit, ok := intervalUnits[strings.ToLower(parts[1])]
	if !ok {
		return interval
	}
	return parts[0] + " " + unit
}

// ConvertTz converts field from the session timezone to the offset of the
// query timezone at generation time.
func ConvertTz(q *dialect.Query, field string) string {
	return fmt.Sprintf("CONVERT_TZ(%s, @@session.time_zone, '%s')", field, q.Offset())
}

// TimeStampCast casts with TIMESTAMP().
func TimeStampCast(value string) string {
	return "TIMESTAMP(" + value + ")"
}
