// Package sqlload provides a batched eagerload.Loader over database/sql.
//
// A Loader issues one SELECT per batch, filtering the key column with an
// IN list (MySQL, SQLite) or a Postgres array binding (= ANY($1)), and
// scans each row with a caller-supplied ScanFunc:
//
//	posts := sqlload.New[int](db, sqlload.MySQL,
//	    sqlload.Table{
//	        Name:      sqlload.TableName("Post"),          // "posts"
//	        KeyColumn: sqlload.ForeignKeyColumn("User"),   // "user_id"
//	        Columns:   []string{"id", "user_id", "title"},
//	    },
//	    func(rows *sql.Rows) (*Post, error) {
//	        p := &Post{}
//	        return p, rows.Scan(&p.ID, &p.UserID, &p.Title)
//	    },
//	)
//
// Table manifests may also be declared in YAML and read with ReadTables.
package sqlload

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-openapi/inflect"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

// Supported SQL dialects.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Querier is the subset of *sql.DB and *sql.Tx the loader needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ScanFunc scans the current row into a child entity.
type ScanFunc[C any] func(*sql.Rows) (C, error)

// Table describes where and how one child entity type is stored.
type Table struct {
	// Name is the table name.
	Name string `yaml:"table"`
	// KeyColumn is the column matched against the batch's lookup keys.
	KeyColumn string `yaml:"key_column"`
	// Columns are the columns selected, in ScanFunc order.
	Columns []string `yaml:"columns"`
	// OrderBy optionally fixes the result order (e.g. "created_at DESC").
	// Deterministic ordering matters for has-many edges, whose children
	// keep the fetch order.
	OrderBy []string `yaml:"order_by"`
}

// Loader is a batched eagerload.Loader backed by a SQL table.
type Loader[K comparable, C any] struct {
	db      Querier
	dialect string
	table   Table
	scan    ScanFunc[C]
}

// New returns a Loader fetching rows of table from db. The key type K is
// given explicitly since it does not appear in the arguments:
//
//	sqlload.New[int64](db, sqlload.Postgres, table, scanPost)
func New[K comparable, C any](db Querier, dialect string, table Table, scan ScanFunc[C]) *Loader[K, C] {
	return &Loader[K, C]{db: db, dialect: dialect, table: table, scan: scan}
}

// Load fetches all rows whose key column matches one of keys, in a single
// query. An empty key set performs no query.
func (l *Loader[K, C]) Load(ctx context.Context, keys []K) ([]C, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query, args, err := l.buildQuery(keys)
	if err != nil {
		return nil, fmt.Errorf("sqlload: building query for table %q: %w", l.table.Name, err)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlload: querying table %q: %w", l.table.Name, err)
	}
	defer rows.Close()
	var out []C
	for rows.Next() {
		c, err := l.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlload: scanning table %q: %w", l.table.Name, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlload: reading table %q: %w", l.table.Name, err)
	}
	return out, nil
}

func (l *Loader[K, C]) buildQuery(keys []K) (string, []any, error) {
	b := sq.Select(l.table.Columns...).From(l.table.Name)
	if l.dialect == Postgres {
		// A single array binding keeps the statement shape stable
		// across batch sizes, so prepared-statement caches stay warm.
		b = b.Where(sq.Expr(l.table.KeyColumn+" = ANY(?)", pq.Array(keys))).
			PlaceholderFormat(sq.Dollar)
	} else {
		vals := make([]any, len(keys))
		for i, k := range keys {
			vals[i] = k
		}
		b = b.Where(sq.Eq{l.table.KeyColumn: vals})
	}
	if len(l.table.OrderBy) > 0 {
		b = b.OrderBy(l.table.OrderBy...)
	}
	return b.ToSql()
}

// TableName returns the conventional table name for an entity name:
// "Post" -> "posts", "OrderItem" -> "order_items".
func TableName(entity string) string {
	return inflect.Tableize(entity)
}

// ForeignKeyColumn returns the conventional foreign-key column pointing
// at an entity: "User" -> "user_id".
func ForeignKeyColumn(entity string) string {
	return inflect.ForeignKey(entity)
}

// ReadTables reads a YAML manifest of tables keyed by entity name,
// filling in conventional table names where omitted:
//
//	Post:
//	  key_column: user_id
//	  columns: [id, user_id, title]
func ReadTables(r io.Reader) (map[string]Table, error) {
	var tables map[string]Table
	if err := yaml.NewDecoder(r).Decode(&tables); err != nil {
		return nil, fmt.Errorf("sqlload: reading table manifest: %w", err)
	}
	for entity, t := range tables {
		if t.Name == "" {
			t.Name = TableName(entity)
			tables[entity] = t
		}
	}
	return tables, nil
}
