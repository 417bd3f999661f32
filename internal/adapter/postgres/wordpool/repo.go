// Package wordpool stores word pools in PostgreSQL and serves them as a
// pool source.
package wordpool

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wordtier/internal/adapter/postgres"
)

const table = "word_pools"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Summary describes one stored pool.
type Summary struct {
	PoolID string `db:"pool_id"`
	Words  int    `db:"words"`
}

// Repo provides word pool persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
	tx *postgres.TxManager
}

// New creates a new word pool repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db, tx: postgres.NewTxManager(db)}
}

// Words returns the raw lines of a pool in stored order.
// A pool without rows is reported as domain.ErrNotFound.
func (r *Repo) Words(ctx context.Context, poolID string) ([]string, error) {
	query, args, err := psql.
		Select("word").
		From(table).
		Where(squirrel.Eq{"pool_id": poolID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var words []string
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &words, query, args...); err != nil {
		return nil, postgres.MapError(err, "pool", poolID)
	}
	if len(words) == 0 {
		return nil, postgres.MapError(pgx.ErrNoRows, "pool", poolID)
	}

	return words, nil
}

// Open returns the pool as line-delimited text.
func (r *Repo) Open(ctx context.Context, poolID string) (io.ReadCloser, error) {
	words, err := r.Words(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(strings.Join(words, "\n"))), nil
}

// Replace stores lines as the full content of a pool, dropping whatever
// the pool held before. It returns the number of rows written.
func (r *Repo) Replace(ctx context.Context, poolID string, lines []string) (int64, error) {
	var copied int64

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		query, args, err := psql.Delete(table).Where(squirrel.Eq{"pool_id": poolID}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return postgres.MapError(err, "pool", poolID)
		}

		rows := make([][]any, len(lines))
		for i, line := range lines {
			rows[i] = []any{poolID, int32(i), line}
		}

		copied, err = q.CopyFrom(ctx, pgx.Identifier{table}, []string{"pool_id", "position", "word"}, pgx.CopyFromRows(rows))
		if err != nil {
			return postgres.MapError(err, "pool", poolID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return copied, nil
}

// List returns every stored pool with its size, ordered by id.
func (r *Repo) List(ctx context.Context) ([]Summary, error) {
	query, args, err := psql.
		Select("pool_id", "count(*) AS words").
		From(table).
		GroupBy("pool_id").
		OrderBy("pool_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []Summary
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	return out, nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
