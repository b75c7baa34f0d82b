// Package adapter provides the database adapter contract and the shared
// database/sql plumbing adapters embed.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

// Type aliases for the core types adapters exchange.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// Adapters are thin: no pooling policy, no transactions.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// TestConnection runs a trivial query to check the connection is usable.
	TestConnection(ctx context.Context) error

	// Exec executes a SQL statement that doesn't return rows (e.g., INSERT, CREATE).
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// ToGenericType maps a database column type to a generic type name.
	ToGenericType(dbType string) string

	// Dialect returns the SQL dialect used to generate SQL for this database.
	Dialect() *dialect.Dialect
}
