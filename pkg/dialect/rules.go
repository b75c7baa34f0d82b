package dialect

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/leapstack-labs/dorisql/pkg/core"
)

// TimeGroupedColumnFunc floors a date expression to the start of its bucket.
type TimeGroupedColumnFunc func(g core.Granularity, dimension string) (string, error)

// IntervalFunc shifts a date expression by an interval such as "1 DAY".
type IntervalFunc func(date, interval string) string

// ConvertTzFunc converts a field into the query timezone.
type ConvertTzFunc func(q *Query, field string) string

// CastFunc casts a value expression.
type CastFunc func(value string) string

// TableNameFunc builds the physical table name of a pre-aggregation.
type TableNameFunc func(q *Query, cube, preAggregation string, skipSchema bool) (string, error)

// Rules is the table of SQL generation rules of a dialect. Every field is
// set; a derived dialect copies its parent's table and replaces fields.
type Rules struct {
	TimeGroupedColumn       TimeGroupedColumnFunc
	AddInterval             IntervalFunc
	SubtractInterval        IntervalFunc
	ConvertTz               ConvertTzFunc
	TimeStampCast           CastFunc
	PreAggregationTableName TableNameFunc
}

// DefaultRules returns the generic rule set every root dialect starts from.
func DefaultRules() Rules {
	return Rules{
		TimeGroupedColumn:       dateTrunc,
		AddInterval:             addIntervalLiteral,
		SubtractInterval:        subtractIntervalLiteral,
		ConvertTz:               atTimeZone,
		TimeStampCast:           castTimestamp,
		PreAggregationTableName: PreAggregationTableName,
	}
}

// UnsupportedGranularity returns the error for a granularity outside the
// known set.
func UnsupportedGranularity(g core.Granularity) error {
	return &core.UnsupportedGranularityError{Value: strconv.Itoa(int(g))}
}

func dateTrunc(g core.Granularity, dimension string) (string, error) {
	if !g.Valid() {
		return "", UnsupportedGranularity(g)
	}
	return fmt.Sprintf("date_trunc('%s', %s)", g, dimension), nil
}

func addIntervalLiteral(date, interval string) string {
	return fmt.Sprintf("%s + interval '%s'", date, interval)
}

func subtractIntervalLiteral(date, interval string) string {
	return fmt.Sprintf("%s - interval '%s'", date, interval)
}

func atTimeZone(q *Query, field string) string {
	return fmt.Sprintf("(%s AT TIME ZONE '%s')", field, q.Timezone())
}

func passthroughTz(_ *Query, field string) string {
	return field
}

func castTimestamp(value string) string {
	return fmt.Sprintf("CAST(%s AS TIMESTAMP)", value)
}

func identityCast(value string) string {
	return value
}

// PreAggregationTableName is the generic naming rule: the snake_case form of
// "<cube>_<preAggregation>", prefixed with the pre-aggregations schema unless
// skipSchema is set.
func PreAggregationTableName(q *Query, cube, preAggregation string, skipSchema bool) (string, error) {
	name := inflect.Underscore(cube + "_" + preAggregation)
	if skipSchema {
		return name, nil
	}
	return q.PreAggregationsSchema() + "." + name, nil
}

// LimitTableNameLength wraps a naming rule so that names longer than the
// dialect's MaxTableNameLength fail. The full name, schema included, is
// checked.
func LimitTableNameLength(next TableNameFunc) TableNameFunc {
	return func(q *Query, cube, preAggregation string, skipSchema bool) (string, error) {
		name, err := next(q, cube, preAggregation, skipSchema)
		if err != nil {
			return "", err
		}
		d := q.Dialect()
		if d.MaxTableNameLength > 0 && utf8.RuneCountInString(name) > d.MaxTableNameLength {
			return "", &core.TableNameTooLongError{
				Dialect: d.DisplayName,
				Name:    name,
				Limit:   d.MaxTableNameLength,
			}
		}
		return name, nil
	}
}

// BaseTemplates returns the generic template set. Dialects patch a copy of it.
func BaseTemplates() core.TemplateSet {
	return core.TemplateSet{
		core.CategoryQuotes: {
			"identifiers": `"`,
			"escape":      `""`,
		},
		core.CategoryFunctions: {
			"COUNT":    "COUNT({{ args_concat }})",
			"SUM":      "SUM({{ args_concat }})",
			"MIN":      "MIN({{ args_concat }})",
			"MAX":      "MAX({{ args_concat }})",
			"AVG":      "AVG({{ args_concat }})",
			"COALESCE": "COALESCE({{ args_concat }})",
			"LOWER":    "LOWER({{ args_concat }})",
			"UPPER":    "UPPER({{ args_concat }})",
		},
		core.CategoryExpressions: {
			"column_aliased":  "{{ expr }} {{ quoted_alias }}",
			"cast":            "CAST({{ expr }} AS {{ data_type }})",
			"binary":          "({{ left }} {{ op }} {{ right }})",
			"is_null":         "({{ expr }} IS {% if negate %}NOT {% endif %}NULL)",
			"sort":            "{{ expr }} {% if asc %}ASC{% else %}DESC{% endif %} NULLS {% if nulls_first %}FIRST{% else %}LAST{% endif %}",
			"like":            "{{ expr }} {% if negated %}NOT {% endif %}LIKE {{ pattern }}",
			"ilike":           "{{ expr }} {% if negated %}NOT {% endif %}ILIKE {{ pattern }}",
			"like_escape":     "{{ like_expr }} ESCAPE {{ escape_char }}",
			"interval_expr":   "INTERVAL '{{ interval }}'",
			"group_by_exprs":  "{% for e in exprs %}{{ e }}{% if not loop.last %}, {% endif %}{% endfor %}",
			"order_by_exprs":  "{% for e in exprs %}{{ e }}{% if not loop.last %}, {% endif %}{% endfor %}",
			"case_when_exprs": "CASE{% for w in whens %} WHEN {{ w[0] }} THEN {{ w[1] }}{% endfor %}{% if else_expr %} ELSE {{ else_expr }}{% endif %} END",
		},
		core.CategoryTypes: {
			"string":    "VARCHAR",
			"text":      "TEXT",
			"binary":    "BLOB",
			"boolean":   "BOOLEAN",
			"tinyint":   "TINYINT",
			"smallint":  "SMALLINT",
			"integer":   "INTEGER",
			"bigint":    "BIGINT",
			"float":     "REAL",
			"double":    "DOUBLE PRECISION",
			"decimal":   "DECIMAL({{ precision }},{{ scale }})",
			"date":      "DATE",
			"time":      "TIME",
			"timestamp": "TIMESTAMP",
			"interval":  "INTERVAL",
		},
		core.CategoryStatements: {
			"select": "SELECT {% for c in select %}{{ c }}{% if not loop.last %}, {% endif %}{% endfor %}\n" +
				"FROM {{ from_expr }}" +
				"{% if filter %}\nWHERE {{ filter }}{% endif %}" +
				"{% if group_by %}\nGROUP BY {{ group_by }}{% endif %}" +
				"{% if order_by %}\nORDER BY {{ order_by }}{% endif %}" +
				"{% if limit %}\nLIMIT {{ limit }}{% endif %}",
		},
	}
}
