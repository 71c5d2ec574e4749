package db

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

// DBTxKey holds the request-scoped transaction in the request context.
const DBTxKey contextKey = "db_tx"

// TxMiddleware opens one transaction per incoming request and stores it in the
// request context. The transaction is committed when the handler returns nil
// and rolled back on error or panic. Repositories pick it up through
// TxFromContext, so every read and write within a request shares one
// transactional scope.
func TxMiddleware(pool *pgxpool.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			tx, err := pool.Begin(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}

			committed := false
			defer func() {
				if !committed {
					_ = tx.Rollback(ctx)
				}
			}()

			c.SetRequest(c.Request().WithContext(context.WithValue(ctx, DBTxKey, tx)))

			if err := next(c); err != nil {
				return err
			}

			if err := tx.Commit(ctx); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "transaction commit failed")
			}
			committed = true
			return nil
		}
	}
}

// TxFromContext retrieves the request-scoped transaction from context, or nil
// when the caller runs outside a request (e.g., CLI commands).
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}
