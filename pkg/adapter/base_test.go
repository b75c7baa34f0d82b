package adapter

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dorisql/internal/testutil"
	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql:       "CREATE TABLE users (id INT)",
			expectErr: false,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).
					AddRow(1, "alice").
					AddRow(2, "bob")
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			sql:       "SELECT id, name FROM users",
			expectErr: false,
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			rows, err := base.Query(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, rows)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, rows)
				defer func() { _ = rows.Close() }()
			}
		})
	}
}

func TestBaseSQLAdapter_QueryArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM users WHERE id = ?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("alice"))
	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	base := &BaseSQLAdapter{DB: db, Logger: testutil.NewTestLogger(t)}

	rows, err := base.Query(context.Background(), "SELECT name FROM users WHERE id = ?", 7)
	require.NoError(t, err)
	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "alice", name)
	require.NoError(t, rows.Close())

	require.NoError(t, base.Exec(context.Background(), "DELETE FROM users WHERE id = ?", 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_LogsQueryID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("TRUNCATE TABLE t").WillReturnResult(sqlmock.NewResult(0, 0))

	logger, logs := testutil.NewCaptureLogger()
	base := &BaseSQLAdapter{DB: db, Logger: logger}
	require.NoError(t, base.Exec(context.Background(), "TRUNCATE TABLE t"))

	out := logs.String()
	assert.Contains(t, out, "msg=exec")
	assert.Contains(t, out, "query_id=")
	assert.Contains(t, out, `sql="TRUNCATE TABLE t"`)
}

func TestBaseSQLAdapter_TestConnection(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.ErrorIs(t, base.TestConnection(context.Background()), ErrNotConnected)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	base.DB = db

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	require.NoError(t, base.TestConnection(context.Background()))

	mock.ExpectQuery("SELECT 1").WillReturnError(assert.AnError)
	err = base.TestConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection test failed")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		table, def   string
		schema, name string
	}{
		{"orders", "test", "test", "orders"},
		{"sales.orders", "test", "sales", "orders"},
		{"orders", "", "", "orders"},
	}
	for _, tt := range tests {
		schema, name := ParseQualifiedName(tt.table, tt.def)
		assert.Equal(t, tt.schema, schema)
		assert.Equal(t, tt.name, name)
	}
}

func TestGetTableMetadataCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	d := dialect.New(&core.DialectConfig{Name: "meta"}).
		Templates(core.Override(core.CategoryQuotes, "identifiers", "`"), core.Override(core.CategoryQuotes, "escape", "``")).
		Build()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("test", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "ordinal_position"}).
			AddRow("id", "bigint", "NO", 1).
			AddRow("name", "varchar(64)", "YES", 2))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `test`.`orders`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	base := &BaseSQLAdapter{DB: db}
	meta, err := base.GetTableMetadataCommon(context.Background(), "orders", "test", d, strings.ToUpper)
	require.NoError(t, err)

	assert.Equal(t, "test", meta.Schema)
	assert.Equal(t, "orders", meta.Name)
	assert.Equal(t, int64(42), meta.RowCount)
	require.Len(t, meta.Columns, 2)
	assert.Equal(t, core.Column{Name: "id", Type: "bigint", GenericType: "BIGINT", Nullable: false, Position: 1}, meta.Columns[0])
	assert.True(t, meta.Columns[1].Nullable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableMetadataCommon_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "ordinal_position"}))

	base := &BaseSQLAdapter{DB: db}
	_, err = base.GetTableMetadataCommon(context.Background(), "db.missing", "test", dialect.New(&core.DialectConfig{Name: "x"}).Build(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table db.missing not found")
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	tests := []struct {
		name     string
		setupDB  bool
		expected bool
	}{
		{
			name:     "not connected",
			setupDB:  false,
			expected: false,
		},
		{
			name:     "connected",
			setupDB:  true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, _, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				base.DB = db
			}

			assert.Equal(t, tt.expected, base.IsConnected())
		})
	}
}
