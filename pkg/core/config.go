// Package core holds the pure data types shared by dialects, adapters, the
// template renderer and the CLI. It has no dependencies on the rest of the module.
package core

import (
	"database/sql"
	"time"
)

// PlaceholderStyle describes how query parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for every parameter (MySQL, Doris).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, ...
	PlaceholderDollar
)

// TimezonePolicy selects how a dialect converts a field into the query timezone.
type TimezonePolicy int

const (
	// TimezonePassthrough leaves field expressions untouched.
	TimezonePassthrough TimezonePolicy = iota
	// TimezoneExplicitOffset converts fields into the query timezone with the
	// dialect's ConvertTz rule. MySQL and Doris bake the offset computed when
	// the SQL is generated into CONVERT_TZ.
	TimezoneExplicitOffset
)

func (p TimezonePolicy) String() string {
	switch p {
	case TimezonePassthrough:
		return "passthrough"
	case TimezoneExplicitOffset:
		return "explicit-offset"
	default:
		return "unknown"
	}
}

// TimestampCastPolicy selects how a dialect casts a value to a timestamp.
type TimestampCastPolicy int

const (
	// CastInherited keeps the base dialect's cast.
	CastInherited TimestampCastPolicy = iota
	// CastElided returns the value unchanged.
	CastElided
)

func (p TimestampCastPolicy) String() string {
	switch p {
	case CastInherited:
		return "inherited"
	case CastElided:
		return "elided"
	default:
		return "unknown"
	}
}

// IdentifierConfig describes identifier quoting.
type IdentifierConfig struct {
	Quote    string // opening quote
	QuoteEnd string // closing quote
	Escape   string // replacement for QuoteEnd inside a quoted name
}

// DialectConfig is the pure data part of a dialect.
type DialectConfig struct {
	Name          string
	DisplayName   string // used in user-facing messages, e.g. "Doris"
	DefaultSchema string
	Placeholder   PlaceholderStyle

	// MaxTableNameLength is the identifier length limit for generated
	// table names. Zero disables the check.
	MaxTableNameLength int

	TimezonePolicy      TimezonePolicy
	TimestampCastPolicy TimestampCastPolicy
}

// AdapterConfig holds the configuration for connecting to a database.
type AdapterConfig struct {
	Type           string
	Host           string
	Port           int
	Database       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	Options        map[string]string
}

// Column describes a table column.
type Column struct {
	Name        string
	Type        string
	GenericType string
	Nullable    bool
	Position    int
}

// TableMetadata describes a table.
type TableMetadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}
