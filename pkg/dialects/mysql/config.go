// Package mysql provides the MySQL SQL dialect definition. It is the base of
// the Doris dialect, which speaks the MySQL protocol and most of its SQL.
package mysql

import "github.com/leapstack-labs/dorisql/pkg/core"

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:                "mysql",
	DisplayName:         "MySQL",
	Placeholder:         core.PlaceholderQuestion,
	TimezonePolicy:      core.TimezoneExplicitOffset,
	TimestampCastPolicy: core.CastInherited,
}

// Templates are the MySQL patches over the base template set.
var Templates = []core.TemplatePatch{
	core.Override(core.CategoryQuotes, "identifiers", "`"),
	core.Override(core.CategoryQuotes, "escape", "``"),

	core.Override(core.CategoryFunctions, "CONCAT", "CONCAT({{ args_concat }})"),
	core.Override(core.CategoryFunctions, "IFNULL", "IFNULL({{ args_concat }})"),

	// NULLs sort first under ASC in MySQL, so placement is forced explicitly.
	core.Override(core.CategoryExpressions, "sort",
		"{% if nulls_first %}{{ expr }} IS NOT NULL{% else %}{{ expr }} IS NULL{% endif %}, {{ expr }} {% if asc %}ASC{% else %}DESC{% endif %}"),
	// LIKE is case-insensitive under the default collations.
	core.Override(core.CategoryExpressions, "ilike", "{{ expr }} {% if negated %}NOT {% endif %}LIKE {{ pattern }}"),
	core.Override(core.CategoryExpressions, "interval_expr", "INTERVAL {{ interval }}"),

	core.Override(core.CategoryTypes, "string", "VARCHAR(255)"),
	core.Override(core.CategoryTypes, "binary", "BLOB"),
	core.Override(core.CategoryTypes, "boolean", "TINYINT(1)"),
	core.Override(core.CategoryTypes, "float", "FLOAT"),
	core.Override(core.CategoryTypes, "double", "DOUBLE"),
}
