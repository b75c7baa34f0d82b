package doris

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
	"github.com/leapstack-labs/dorisql/pkg/dialects/mysql"
)

func newQuery(t *testing.T, qc dialect.QueryContext) *dialect.Query {
	t.Helper()
	q, err := Doris.NewQuery(qc)
	require.NoError(t, err)
	return q
}

func TestDoris_Registered(t *testing.T) {
	d, ok := dialect.Get("doris")
	require.True(t, ok)
	assert.Same(t, Doris, d)
	assert.Equal(t, "mysql", d.Parent)
	assert.Equal(t, "Doris", d.DisplayName)
}

func TestTimeGroupedColumn_AllGranularities(t *testing.T) {
	tests := []struct {
		granularity string
		expected    string
	}{
		{"day", "CAST(DATE_FORMAT(dimension, '%Y-%m-%dT00:00:00.000') AS DATETIME)"},
		{"week", "CAST(DATE_FORMAT(DATE_ADD('1900-01-01', INTERVAL TIMESTAMPDIFF(WEEK, '1900-01-01', dimension) WEEK), '%Y-%m-%dT00:00:00.000') AS DATETIME)"},
		{"hour", "CAST(DATE_FORMAT(dimension, '%Y-%m-%dT%H:00:00.000') AS DATETIME)"},
		{"minute", "CAST(DATE_FORMAT(dimension, '%Y-%m-%dT%H:%i:00.000') AS DATETIME)"},
		{"second", "CAST(DATE_FORMAT(dimension, '%Y-%m-%dT%H:%i:%S.000') AS DATETIME)"},
		{"month", "CAST(DATE_FORMAT(dimension, '%Y-%m-01T00:00:00.000') AS DATETIME)"},
		{"quarter", "CAST(DATE_ADD('1900-01-01', INTERVAL TIMESTAMPDIFF(QUARTER, '1900-01-01', dimension) QUARTER) AS DATETIME)"},
		{"year", "CAST(DATE_FORMAT(dimension, '%Y-01-01T00:00:00.000') AS DATETIME)"},
	}
	require.Len(t, tests, len(core.Granularities))

	q := newQuery(t, dialect.QueryContext{Timezone: "UTC"})
	for _, tt := range tests {
		t.Run(tt.granularity, func(t *testing.T) {
			got, err := q.TimeGroupedColumnByName(tt.granularity, "dimension")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, strings.HasPrefix(got, "CAST(") && strings.HasSuffix(got, " AS DATETIME)"))
		})
	}
}

func TestTimeGroupedColumn_Invalid(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	got, err := q.TimeGroupedColumnByName("invalid", "dimension")
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, core.ErrUnsupportedGranularity))
	assert.EqualError(t, err, "unsupported granularity: invalid")

	got, err = TimeGroupedColumn(core.Granularity(8), "dimension")
	require.Error(t, err)
	assert.Empty(t, got)
}

func TestTimeGroupedColumn_NamesAreCaseSensitive(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	for _, name := range []string{"DAY", "Week", " month"} {
		t.Run(name, func(t *testing.T) {
			got, err := q.TimeGroupedColumnByName(name, "dimension")
			require.ErrorIs(t, err, core.ErrUnsupportedGranularity)
			assert.Empty(t, got)
			assert.EqualError(t, err, "unsupported granularity: "+name)
		})
	}
}

func TestIntervals(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	assert.Equal(t, "DATE_SUB(date, INTERVAL 1 day)", q.SubtractInterval("date", "1 day"))
	assert.Equal(t, "DATE_SUB(date, INTERVAL 2 months)", q.SubtractInterval("date", "2 months"))
	assert.Equal(t, "DATE_ADD(date, INTERVAL 1 day)", q.AddInterval("date", "1 day"))
	assert.Equal(t, "DATE_ADD(date, INTERVAL 2 months)", q.AddInterval("date", "2 months"))

	// passed through verbatim, unlike the MySQL base
	assert.Equal(t, "DATE_ADD(date, INTERVAL banana)", q.AddInterval("date", "banana"))
	assert.NotEqual(t, mysql.AddInterval("date", "2 months"), q.AddInterval("date", "2 months"))
}

func TestConvertTz(t *testing.T) {
	winter := clockwork.NewFakeClockAt(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	summer := clockwork.NewFakeClockAt(time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		tz    string
		clock clockwork.Clock
		want  string
	}{
		{"UTC", winter, "CONVERT_TZ(timestamp_field, @@session.time_zone, '+00:00')"},
		{"Asia/Shanghai", winter, "CONVERT_TZ(timestamp_field, @@session.time_zone, '+08:00')"},
		{"America/New_York", winter, "CONVERT_TZ(timestamp_field, @@session.time_zone, '-05:00')"},
		{"America/New_York", summer, "CONVERT_TZ(timestamp_field, @@session.time_zone, '-04:00')"},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			q := newQuery(t, dialect.QueryContext{Timezone: tt.tz, Clock: tt.clock})
			assert.Equal(t, tt.want, q.ConvertTz("timestamp_field"))
		})
	}
}

func TestConvertTz_OffsetFixedAtGeneration(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC))
	q := newQuery(t, dialect.QueryContext{Timezone: "America/New_York", Clock: clock})

	before := q.ConvertTz("f")
	clock.Advance(48 * time.Hour) // across the DST switch on 2024-03-10
	after := q.ConvertTz("f")

	assert.Contains(t, before, "'-05:00'")
	assert.Contains(t, after, "'-04:00'")
}

func TestTimeStampCast_Elided(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})
	assert.Equal(t, "created_at", q.TimeStampCast("created_at"))
	assert.Equal(t, "TIMESTAMP(created_at)", mysql.TimeStampCast("created_at"))
}

func TestPreAggregationTableName(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	name, err := q.PreAggregationTableName("orders", "daily_sales", true)
	require.NoError(t, err)
	assert.Equal(t, "orders_daily_sales", name)

	name, err = q.PreAggregationTableName("cube", "agg", false)
	require.NoError(t, err)
	assert.Equal(t, "pre_aggregations.cube_agg", name)

	// exactly 64: 31 + "_" + 32
	name, err = q.PreAggregationTableName(strings.Repeat("a", 31), strings.Repeat("b", 32), true)
	require.NoError(t, err)
	assert.Len(t, name, 64)
}

func TestPreAggregationTableName_TooLong(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	tests := []struct {
		name       string
		cube       string
		preAgg     string
		skipSchema bool
		wantName   string
	}{
		{"65 chars", strings.Repeat("a", 32), strings.Repeat("b", 32), true, strings.Repeat("a", 32) + "_" + strings.Repeat("b", 32)},
		{"66 chars", strings.Repeat("a", 32), strings.Repeat("b", 33), true, strings.Repeat("a", 32) + "_" + strings.Repeat("b", 33)},
		{
			"schema pushes it over",
			strings.Repeat("a", 25), strings.Repeat("b", 25), false,
			"pre_aggregations." + strings.Repeat("a", 25) + "_" + strings.Repeat("b", 25),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.PreAggregationTableName(tt.cube, tt.preAgg, tt.skipSchema)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, core.ErrTableNameTooLong)

			var tooLong *core.TableNameTooLongError
			require.ErrorAs(t, err, &tooLong)
			assert.Equal(t, tt.wantName, tooLong.Name)
			assert.Equal(t, MaxTableNameLength, tooLong.Limit)
			assert.Equal(t,
				"Doris cannot work with table names longer than 64 symbols. Consider using the 'sqlAlias' attribute in your cube and pre-aggregation definition for "+tt.wantName+".",
				err.Error())
		})
	}
}

func TestSQLTemplates(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})
	templates := q.SQLTemplates()

	assert.Equal(t, "`", templates[core.CategoryQuotes]["identifiers"])
	assert.Equal(t, "\\`", templates[core.CategoryQuotes]["escape"])

	types := templates[core.CategoryTypes]
	assert.Equal(t, "VARCHAR", types["string"])
	assert.Equal(t, "STRING", types["text"])
	assert.Equal(t, "BOOLEAN", types["boolean"])
	assert.Equal(t, "DATETIME", types["timestamp"])
	assert.Equal(t, "STRING", types["binary"])
	assert.NotContains(t, types, "interval")

	exprs := templates[core.CategoryExpressions]
	assert.NotContains(t, exprs, "ilike")
	assert.Equal(t, "{{ expr }} IS NULL {% if nulls_first %}DESC{% else %}ASC{% endif %}, {{ expr }} {% if asc %}ASC{% else %}DESC{% endif %}", exprs["sort"])

	// inherited from MySQL and the base set
	assert.Equal(t, "DOUBLE", types["double"])
	assert.Contains(t, templates[core.CategoryFunctions], "COUNT")
}

func TestSQLTemplates_NoLeakage(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	first := q.SQLTemplates()
	second := q.SQLTemplates()
	assert.Equal(t, first, second)

	first[core.CategoryQuotes]["identifiers"] = `"`
	first[core.CategoryTypes]["interval"] = "INTERVAL"

	assert.Equal(t, "`", second[core.CategoryQuotes]["identifiers"])
	assert.NotContains(t, q.SQLTemplates()[core.CategoryTypes], "interval")

	// the MySQL base keeps what Doris removed
	base, err := mysql.MySQL.NewQuery(dialect.QueryContext{})
	require.NoError(t, err)
	assert.True(t, base.HasTemplate(core.CategoryExpressions, "ilike"))
	assert.True(t, base.HasTemplate(core.CategoryTypes, "interval"))
	assert.Equal(t, "``", base.SQLTemplates()[core.CategoryQuotes]["escape"])
}

func TestSQLTemplates_Concurrent(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := q.SQLTemplates()
			s[core.CategoryTypes]["string"] = "X"
			delete(s[core.CategoryExpressions], "sort")
		}()
	}
	wg.Wait()

	assert.Equal(t, "VARCHAR", q.SQLTemplates()[core.CategoryTypes]["string"])
	assert.True(t, q.HasTemplate(core.CategoryExpressions, "sort"))
}

func TestTemplateConsumers(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})

	tests := []struct {
		asc, nullsFirst bool
		want            string
	}{
		{true, false, "price IS NULL ASC, price ASC"},
		{true, true, "price IS NULL DESC, price ASC"},
		{false, false, "price IS NULL ASC, price DESC"},
		{false, true, "price IS NULL DESC, price DESC"},
	}
	for _, tt := range tests {
		got, err := q.OrderBy("price", tt.asc, tt.nullsFirst)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	ilike, err := q.ILike("name", "'%abc%'", false)
	require.NoError(t, err)
	assert.Equal(t, "LOWER(name) LIKE LOWER('%abc%')", ilike)

	assert.Equal(t, "`a\\`b`", q.QuoteIdentifier("a`b"))
	assert.Equal(t, "`orders`", q.QuoteIdentifier("orders"))

	text, err := q.TypeName("text")
	require.NoError(t, err)
	assert.Equal(t, "STRING", text)

	_, err = q.TypeName("interval")
	assert.ErrorIs(t, err, core.ErrTemplateNotFound)
}

var epochBucketRe = regexp.MustCompile(`DATE_ADD\('(\d{4}-\d{2}-\d{2})', INTERVAL TIMESTAMPDIFF\((\w+), '(\d{4}-\d{2}-\d{2})', created_at\) (\w+)\)`)

// evalEpochBucket evaluates DATE_ADD(epoch, INTERVAL TIMESTAMPDIFF(unit, epoch, d) unit)
// the way MySQL and Doris do: TIMESTAMPDIFF counts whole units.
func evalEpochBucket(t *testing.T, sql string, d time.Time) time.Time {
	t.Helper()
	m := epochBucketRe.FindStringSubmatch(sql)
	require.NotNil(t, m, "no epoch bucket in %s", sql)
	require.Equal(t, m[1], m[3])
	require.Equal(t, m[2], m[4])

	epoch, err := time.Parse("2006-01-02", m[1])
	require.NoError(t, err)

	switch m[2] {
	case "WEEK":
		weeks := int(d.Sub(epoch).Hours() / (24 * 7))
		return epoch.AddDate(0, 0, weeks*7)
	case "QUARTER":
		months := (d.Year()-epoch.Year())*12 + int(d.Month()-epoch.Month())
		if epoch.AddDate(0, months, 0).After(d) {
			months--
		}
		return epoch.AddDate(0, (months/3)*3, 0)
	default:
		t.Fatalf("unexpected unit %s", m[2])
		return time.Time{}
	}
}

func TestEpochBuckets_CalendarAligned(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})
	quarter, err := q.TimeGroupedColumn(core.GranularityQuarter, "created_at")
	require.NoError(t, err)
	week, err := q.TimeGroupedColumn(core.GranularityWeek, "created_at")
	require.NoError(t, err)

	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	quarterCases := []struct{ in, want time.Time }{
		{date(2024, time.February, 1), date(2024, time.January, 1)},
		{date(2023, time.November, 15), date(2023, time.October, 1)},
		{date(2023, time.December, 31), date(2023, time.October, 1)},
		{date(2024, time.January, 1), date(2024, time.January, 1)},
		{date(2024, time.June, 30), date(2024, time.April, 1)},
	}
	for _, tc := range quarterCases {
		assert.Equal(t, tc.want, evalEpochBucket(t, quarter, tc.in), "quarter of %s", tc.in.Format(time.DateOnly))
	}

	// weeks start on Monday
	weekCases := []struct{ in, want time.Time }{
		{date(2024, time.January, 3), date(2024, time.January, 1)},
		{date(2024, time.January, 7), date(2024, time.January, 1)},
		{date(2024, time.January, 8), date(2024, time.January, 8)},
		{date(2023, time.December, 31), date(2023, time.December, 25)},
	}
	for _, tc := range weekCases {
		got := evalEpochBucket(t, week, tc.in)
		assert.Equal(t, tc.want, got, "week of %s", tc.in.Format(time.DateOnly))
		assert.Equal(t, time.Monday, got.Weekday())
	}
}

func TestEpochBuckets_BeforeEpoch(t *testing.T) {
	q := newQuery(t, dialect.QueryContext{})
	quarter, err := q.TimeGroupedColumn(core.GranularityQuarter, "created_at")
	require.NoError(t, err)
	week, err := q.TimeGroupedColumn(core.GranularityWeek, "created_at")
	require.NoError(t, err)

	epoch := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, Epoch, epoch.Format(time.DateOnly))

	// the first bucket is exact
	assert.Equal(t, epoch, evalEpochBucket(t, week, epoch.Add(6*24*time.Hour)))
	assert.Equal(t, epoch, evalEpochBucket(t, quarter, time.Date(1900, time.March, 31, 0, 0, 0, 0, time.UTC)))

	// earlier values round up to the epoch instead of down to their own bucket
	assert.Equal(t, epoch, evalEpochBucket(t, week, time.Date(1899, time.December, 27, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, epoch, evalEpochBucket(t, quarter, time.Date(1899, time.November, 15, 0, 0, 0, 0, time.UTC)))
}
