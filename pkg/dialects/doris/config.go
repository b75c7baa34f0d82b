// Package doris provides the Apache Doris SQL dialect.
//
// Doris extends the MySQL dialect. It replaces time bucketing with
// DATE_FORMAT and 1900-01-01 epoch arithmetic, passes interval strings
// through verbatim, keeps MySQL's explicit-offset CONVERT_TZ, drops the
// TIMESTAMP() cast and limits generated table names to 64 characters.
package doris

import "github.com/leapstack-labs/dorisql/pkg/core"

// MaxTableNameLength is the longest table name Doris accepts.
const MaxTableNameLength = 64

// Epoch is the reference date of week and quarter buckets. It is a Monday
// and the first day of a quarter.
const Epoch = "1900-01-01"

// Config is the Doris dialect configuration.
var Config = &core.DialectConfig{
	Name:                "doris",
	DisplayName:         "Doris",
	Placeholder:         core.PlaceholderQuestion,
	MaxTableNameLength:  MaxTableNameLength,
	TimezonePolicy:      core.TimezoneExplicitOffset,
	TimestampCastPolicy: core.CastElided,
}

// SortTemplate places NULLs with an IS NULL key instead of NULLS FIRST/LAST.
const SortTemplate = "{{ expr }} IS NULL {% if nulls_first %}DESC{% else %}ASC{% endif %}, {{ expr }} {% if asc %}ASC{% else %}DESC{% endif %}"

// Templates are the Doris patches over the MySQL template set.
var Templates = []core.TemplatePatch{
	core.Override(core.CategoryQuotes, "identifiers", "`"),
	core.Override(core.CategoryQuotes, "escape", "\\`"),

	core.Override(core.CategoryExpressions, "sort", SortTemplate),
	core.Remove(core.CategoryExpressions, "ilike"),

	core.Override(core.CategoryTypes, "string", "VARCHAR"),
	core.Override(core.CategoryTypes, "text", "STRING"),
	core.Override(core.CategoryTypes, "binary", "STRING"), // no BLOB type
	core.Override(core.CategoryTypes, "boolean", "BOOLEAN"),
	core.Override(core.CategoryTypes, "timestamp", "DATETIME"),
	core.Remove(core.CategoryTypes, "interval"),
}
