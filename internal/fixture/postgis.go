package fixture

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// conn is the subset of *pgx.Conn the evaluator needs
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// PostGIS evaluates functions in a PostgreSQL database with the postgis
// extension. The scratch table is dropped and recreated for every function.
type PostGIS struct {
	conn  conn
	table string
}

// OpenPostGIS connects to dsn and makes sure the extension exists
func OpenPostGIS(ctx context.Context, dsn, table string) (*PostGIS, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgis")
	}
	p, err := newPostGIS(ctx, c, table)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to postgis", slog.String("table", table))
	return p, nil
}

func newPostGIS(ctx context.Context, c conn, table string) (*PostGIS, error) {
	if _, err := c.Exec(ctx, "create extension if not exists postgis"); err != nil {
		c.Close(ctx)
		return nil, errors.Wrap(err, "create postgis extension")
	}
	return &PostGIS{conn: c, table: table}, nil
}

func (p *PostGIS) initTable(ctx context.Context) error {
	ident := pgx.Identifier{p.table}.Sanitize()
	if _, err := p.conn.Exec(ctx, "drop table if exists "+ident); err != nil {
		return errors.Wrapf(err, "drop table %s", p.table)
	}
	if _, err := p.conn.Exec(ctx, "create table "+ident+"(id serial, geos_left text, geos_right text)"); err != nil {
		return errors.Wrapf(err, "create table %s", p.table)
	}
	return nil
}

// Evaluate loads pairs into the scratch table and runs fn over it
func (p *PostGIS) Evaluate(ctx context.Context, fn Function, pairs []Pair) ([]interface{}, error) {
	if err := p.initTable(ctx); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(pairs))
	for i, pr := range pairs {
		rows[i] = []interface{}{pr.Left, pr.Right}
	}

	copied, err := p.conn.CopyFrom(ctx,
		pgx.Identifier{p.table},
		[]string{"geos_left", "geos_right"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "copy %d rows into %s", len(rows), p.table)
	}

	slog.Debug("fixture rows loaded",
		slog.String("function", fn.SQLName()),
		slog.Int64("rows", copied),
	)

	result, err := p.conn.Query(ctx, fn.Query(pgx.Identifier{p.table}.Sanitize()))
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", fn.SQLName())
	}
	defer result.Close()

	out := make([]interface{}, 0, len(pairs))
	for result.Next() {
		values, err := result.Values()
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", fn.SQLName())
		}
		if len(values) != 1 {
			return nil, errors.Newf("%s returned %d columns", fn.SQLName(), len(values))
		}
		out = append(out, values[0])
	}
	if err := result.Err(); err != nil {
		return nil, errors.Wrapf(err, "query %s", fn.SQLName())
	}
	return out, nil
}

// Close closes the connection
func (p *PostGIS) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}
