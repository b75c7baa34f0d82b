package doris

import (
	"fmt"

	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
	"github.com/leapstack-labs/dorisql/pkg/dialects/mysql"
)

func init() {
	dialect.Register(Doris)
}

// Doris is the Apache Doris SQL dialect.
var Doris = build()

func build() *dialect.Dialect {
	b := dialect.Extend(mysql.MySQL, Config)
	return b.
		TimeGroupedColumn(TimeGroupedColumn).
		AddInterval(AddInterval).
		SubtractInterval(SubtractInterval).
		PreAggregationTableName(dialect.LimitTableNameLength(b.Rules().PreAggregationTableName)).
		Templates(Templates...).
		Build()
}

// TimeGroupedColumn floors dimension to the start of its g bucket and casts
// it to DATETIME. Weeks and quarters are counted from Epoch so that no native
// truncation function is needed.
func TimeGroupedColumn(g core.Granularity, dimension string) (string, error) {
	var bucket string
	switch g {
	case core.GranularitySecond, core.GranularityMinute, core.GranularityHour,
		core.GranularityDay, core.GranularityMonth, core.GranularityYear:
		pattern, _ := mysql.DateFormat(g)
		bucket = fmt.Sprintf("DATE_FORMAT(%s, '%s')", dimension, pattern)
	case core.GranularityWeek:
		day, _ := mysql.DateFormat(core.GranularityDay)
		bucket = fmt.Sprintf("DATE_FORMAT(%s, '%s')", epochBucket("WEEK", dimension), day)
	case core.GranularityQuarter:
		bucket = epochBucket("QUARTER", dimension)
	default:
		return "", dialect.UnsupportedGranularity(g)
	}
	return "CAST(" + bucket + " AS DATETIME)", nil
}

// epochBucket counts whole units from Epoch. TIMESTAMPDIFF truncates toward
// zero, so the bucket is exact only for values on or after Epoch; earlier
// values land one bucket late.
func epochBucket(unit, dimension string) string {
	return fmt.Sprintf("DATE_ADD('%s', INTERVAL TIMESTAMPDIFF(%s, '%s', %s) %s)", Epoch, unit, Epoch, dimension, unit)
}

// AddInterval adds interval to date. The interval is not validated.
func AddInterval(date, interval string) string {
	return fmt.Sprintf("DATE_ADD(%s, INTERVAL %s)", date, interval)
}

// SubtractInterval subtracts interval from date. The interval is not validated.
func SubtractInterval(date, interval string) string {
	return fmt.Sprintf("DATE_SUB(%s, INTERVAL %s)", date, interval)
}
