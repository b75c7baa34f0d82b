// Package doris provides an Apache Doris database adapter. Doris speaks the
// MySQL protocol, so the adapter runs on github.com/go-sql-driver/mysql.
//
// This file registers the adapter with the adapter registry under "doris"
// and "mysql". Import this package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/dorisql/pkg/adapters/doris"
package doris

import (
	"log/slog"

	"github.com/leapstack-labs/dorisql/pkg/adapter"
)

func init() {
	adapter.Register("doris", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return NewMySQL(logger) })
}
