package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/userreport/internal/config"
	"github.com/JonMunkholm/userreport/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of *pgxpool.Pool and *pgx.Conn used by Postgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads records from a table with name, age and country columns.
// Values are read as text; NULL becomes the empty string, matching a short
// line in the file source.
type Postgres struct {
	db      Querier
	table   string
	timeout time.Duration
}

// NewPostgres returns a Source querying table through db. A zero timeout
// leaves the caller's context deadline in charge.
func NewPostgres(db Querier, table string, timeout time.Duration) *Postgres {
	return &Postgres{db: db, table: table, timeout: timeout}
}

// Connect opens and pings a connection pool sized by cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", core.ErrSourceUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", core.ErrSourceUnavailable, err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	return pool, nil
}

// Load runs the record query and collects rows in result order.
func (p *Postgres) Load(ctx context.Context) ([]core.UserRecord, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	rows, err := p.db.Query(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", core.ErrSourceUnavailable, p.table, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[core.UserRecord])
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrSourceUnavailable, p.table, err)
	}

	slog.Debug("postgres loaded", "table", p.table, "records", len(records))
	return records, nil
}

// Name returns "postgres:" followed by the table name.
func (p *Postgres) Name() string {
	return "postgres:" + p.table
}

// query selects the three record columns as trimmed text. A dotted table
// name is treated as schema.table.
func (p *Postgres) query() string {
	table := pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
	return fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s",
		textColumn(core.ColumnName),
		textColumn(core.ColumnAge),
		textColumn(core.ColumnCountry),
		table,
	)
}

func textColumn(name string) string {
	col := pgx.Identifier{name}.Sanitize()
	return fmt.Sprintf("COALESCE(TRIM(%s::text), '')", col)
}
