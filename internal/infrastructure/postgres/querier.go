// Package postgres implementa los puertos de persistencia sobre pgx/v5.
// Los repositorios aceptan un Querier, de modo que el mismo adaptador sirve
// con el pool (fuera de transacción) o con una tx (dentro del TxRunner).
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
