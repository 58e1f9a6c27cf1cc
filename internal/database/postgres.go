package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"feedback-api/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the distributed engine, reached through a connection string
// injected by the hosting platform.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 20
	config.MinConns = 0
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Get().Info().Str("host", config.ConnConfig.Host).Msg("connected to distributed database")
	return &Postgres{pool: pool}, nil
}

// Exec rebinds placeholders and, for inserts without their own RETURNING
// clause, asks the server for the generated id.
func (p *Postgres) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	q, returnsID := PostgresSQL(query)
	if returnsID {
		var id int64
		if err := p.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
			return Result{}, fmt.Errorf("exec: %w", err)
		}
		return Result{LastInsertID: id, RowsAffected: 1}, nil
	}

	tag, err := p.pool.Exec(ctx, q, args...)
	if err != nil {
		return Result{}, fmt.Errorf("exec: %w", err)
	}
	return Result{RowsAffected: tag.RowsAffected()}, nil
}

func (p *Postgres) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := p.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (p *Postgres) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	q, _ := PostgresSQL(query)
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	result := make([]Row, 0, len(maps))
	for _, m := range maps {
		row := make(Row, len(m))
		for k, v := range m {
			row[k] = normalize(v)
		}
		result = append(result, row)
	}
	return result, nil
}

func (p *Postgres) Dialect() Dialect { return DialectPostgres }

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// PostgresSQL returns the statement the Postgres engine runs for query:
// placeholders are rebound and an INSERT without its own RETURNING clause
// gets "RETURNING id" appended, reported by returnsID.
func PostgresSQL(query string) (sql string, returnsID bool) {
	sql = rebind(query)
	if isInsert(sql) && !hasReturning(sql) {
		return strings.TrimRight(strings.TrimSpace(sql), ";") + " RETURNING id", true
	}
	return sql, false
}

// rebind turns "?" placeholders into "$1".."$n", leaving quoted literals and
// identifiers alone.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

func hasReturning(query string) bool {
	return strings.Contains(strings.ToUpper(query), "RETURNING")
}
