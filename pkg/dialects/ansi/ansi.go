// Package ansi provides the generic ANSI SQL dialect: date_trunc bucketing,
// interval literals, AT TIME ZONE conversion and the base template set.
//
// It is registered for completeness and as a reference point in tests; the
// MySQL family does not extend it but starts from the same defaults.
package ansi

import (
	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name:                "ansi",
	DisplayName:         "ANSI SQL",
	DefaultSchema:       "public",
	Placeholder:         core.PlaceholderQuestion,
	TimezonePolicy:      core.TimezoneExplicitOffset,
	TimestampCastPolicy: core.CastInherited,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).Build()
