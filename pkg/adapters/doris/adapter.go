package doris

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/leapstack-labs/dorisql/pkg/adapter"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
	dorisdialect "github.com/leapstack-labs/dorisql/pkg/dialects/doris"
	mysqldialect "github.com/leapstack-labs/dorisql/pkg/dialects/mysql"
)

// DefaultConnectTimeout applies when the target sets no connect_timeout.
const DefaultConnectTimeout = 10 * time.Second

// DefaultMySQLPort is used by the adapter registered as "mysql".
const DefaultMySQLPort = 3306

// Adapter implements the adapter.Adapter interface for Doris.
type Adapter struct {
	adapter.BaseSQLAdapter
	name        string
	defaultPort int
	dialect     *dialect.Dialect
}

// New creates a new Doris adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return newAdapter("doris", DefaultPort, dorisdialect.Doris, logger)
}

// NewMySQL creates the same adapter bound to the MySQL dialect, for plain
// MySQL servers.
func NewMySQL(logger *slog.Logger) *Adapter {
	return newAdapter("mysql", DefaultMySQLPort, mysqldialect.MySQL, logger)
}

func newAdapter(name string, port int, d *dialect.Dialect, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		name:           name,
		defaultPort:    port,
		dialect:        d,
	}
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() *dialect.Dialect {
	return a.dialect
}

// Connect opens a connection pool and pings the server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.Port == 0 {
		cfg.Port = a.defaultPort
	}
	dsn, params, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to "+a.name,
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", a.name, err)
	}
	if params.MaxOpenConns > 0 {
		db.SetMaxOpenConns(params.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", a.name, err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildDSN constructs a go-sql-driver/mysql DSN from the adapter config.
// A zero port means DefaultPort.
func buildDSN(cfg adapter.Config) (string, Params, error) {
	params, err := ParseParams(cfg.Options)
	if err != nil {
		return "", params, err
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(portOrDefault(cfg.Port)))
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.Timeout = timeout
	mc.ReadTimeout = params.ReadTimeout
	mc.WriteTimeout = params.WriteTimeout
	mc.InterpolateParams = params.InterpolateParams
	if params.Collation != "" {
		mc.Collation = params.Collation
	}
	if params.TLS != "" {
		mc.TLSConfig = params.TLS
	}

	return mc.FormatDSN(), params, nil
}

func portOrDefault(port int) int {
	if port == 0 {
		return DefaultPort
	}
	return port
}

// GetTableMetadata retrieves metadata for a table. Unqualified names are
// looked up in the connected database.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, a.Cfg.Database, a.dialect, ToGenericType)
}

// ToGenericType maps a Doris column type to a generic type.
func (a *Adapter) ToGenericType(dbType string) string {
	return ToGenericType(dbType)
}
