package dialect

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/leapstack-labs/dorisql/internal/template"
	"github.com/leapstack-labs/dorisql/pkg/core"
)

// Defaults applied by NewQuery.
const (
	DefaultTimezone              = "UTC"
	DefaultPreAggregationsSchema = "pre_aggregations"
)

// QueryContext carries the per-compilation settings of a query.
type QueryContext struct {
	Timezone              string          // IANA zone name, "UTC" when empty
	PreAggregationsSchema string          // "pre_aggregations" when empty
	Clock                 clockwork.Clock // real clock when nil
}

// Query is a dialect bound to one compilation context. It is immutable once
// built and safe for concurrent use.
type Query struct {
	dialect  *Dialect
	timezone string
	location *time.Location
	schema   string
	clock    clockwork.Clock
}

// NewQuery binds the dialect to qc. The timezone is resolved here, once; an
// unknown zone is an error.
func (d *Dialect) NewQuery(qc QueryContext) (*Query, error) {
	tz := qc.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	schema := qc.PreAggregationsSchema
	if schema == "" {
		schema = DefaultPreAggregationsSchema
	}

	clock := qc.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Query{
		dialect:  d,
		timezone: tz,
		location: loc,
		schema:   schema,
		clock:    clock,
	}, nil
}

// Dialect returns the dialect the query was built from.
func (q *Query) Dialect() *Dialect { return q.dialect }

// Timezone returns the configured IANA zone name.
func (q *Query) Timezone() string { return q.timezone }

// Location returns the loaded query timezone.
func (q *Query) Location() *time.Location { return q.location }

// PreAggregationsSchema returns the schema pre-aggregation tables live in.
func (q *Query) PreAggregationsSchema() string { return q.schema }

// Offset returns the UTC offset of the query timezone at the clock's current
// instant, formatted as ±HH:MM.
func (q *Query) Offset() string {
	return q.clock.Now().In(q.location).Format("-07:00")
}

// TimeGroupedColumn floors dimension to the start of its g bucket.
func (q *Query) TimeGroupedColumn(g core.Granularity, dimension string) (string, error) {
	if !g.Valid() {
		return "", UnsupportedGranularity(g)
	}
	return q.dialect.rules.TimeGroupedColumn(g, dimension)
}

// TimeGroupedColumnByName is TimeGroupedColumn for an external granularity name.
func (q *Query) TimeGroupedColumnByName(granularity, dimension string) (string, error) {
	g, err := core.ParseGranularity(granularity)
	if err != nil {
		return "", err
	}
	return q.TimeGroupedColumn(g, dimension)
}

// AddInterval adds interval to date.
func (q *Query) AddInterval(date, interval string) string {
	return q.dialect.rules.AddInterval(date, interval)
}

// SubtractInterval subtracts interval from date.
func (q *Query) SubtractInterval(date, interval string) string {
	return q.dialect.rules.SubtractInterval(date, interval)
}

// ConvertTz converts field into the query timezone.
func (q *Query) ConvertTz(field string) string {
	return q.dialect.rules.ConvertTz(q, field)
}

// TimeStampCast casts value to the dialect's timestamp type.
func (q *Query) TimeStampCast(value string) string {
	return q.dialect.rules.TimeStampCast(value)
}

// PreAggregationTableName returns the physical table name of a pre-aggregation.
func (q *Query) PreAggregationTableName(cube, preAggregation string, skipSchema bool) (string, error) {
	return q.dialect.rules.PreAggregationTableName(q, cube, preAggregation, skipSchema)
}

// SQLTemplates returns a private copy of the dialect's template set.
func (q *Query) SQLTemplates() core.TemplateSet {
	return q.dialect.Templates()
}

// RenderTemplate renders category.name with vars.
func (q *Query) RenderTemplate(category, name string, vars map[string]any) (string, error) {
	src, ok := q.dialect.templates.Get(category, name)
	if !ok {
		return "", &core.TemplateNotFoundError{Category: category, Name: name}
	}
	return template.RenderString(src, category+"."+name, vars)
}

// HasTemplate reports whether the dialect defines category.name.
func (q *Query) HasTemplate(category, name string) bool {
	_, ok := q.dialect.templates.Get(category, name)
	return ok
}

// OrderBy renders a sort expression with explicit null placement.
func (q *Query) OrderBy(expr string, asc, nullsFirst bool) (string, error) {
	return q.RenderTemplate(core.CategoryExpressions, "sort", map[string]any{
		"expr":        expr,
		"asc":         asc,
		"nulls_first": nullsFirst,
	})
}

// ILike renders a case-insensitive match. Dialects without an ilike template
// get LOWER(expr) LIKE LOWER(pattern).
func (q *Query) ILike(expr, pattern string, negated bool) (string, error) {
	if q.HasTemplate(core.CategoryExpressions, "ilike") {
		return q.RenderTemplate(core.CategoryExpressions, "ilike", map[string]any{
			"expr":    expr,
			"pattern": pattern,
			"negated": negated,
		})
	}

	not := ""
	if negated {
		not = "NOT "
	}
	return fmt.Sprintf("LOWER(%s) %sLIKE LOWER(%s)", expr, not, pattern), nil
}

// QuoteIdentifier quotes name with the dialect's identifier quotes.
func (q *Query) QuoteIdentifier(name string) string {
	return q.dialect.QuoteIdentifier(name)
}

// TypeName returns the SQL type for a generic type such as "text" or "timestamp".
func (q *Query) TypeName(generic string) (string, error) {
	return q.RenderTemplate(core.CategoryTypes, generic, nil)
}

// DecimalTypeName returns the SQL decimal type with the given precision and scale.
func (q *Query) DecimalTypeName(precision, scale int) (string, error) {
	return q.RenderTemplate(core.CategoryTypes, "decimal", map[string]any{
		"precision": precision,
		"scale":     scale,
	})
}
