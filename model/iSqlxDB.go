package model

import (
	"context"
	"database/sql"
)

// ISqlxDB is the slice of a ClickHouse session the span services use.
type ISqlxDB interface {
	QueryCtx(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecCtx(ctx context.Context, query string, args ...any) error
	Conn(ctx context.Context) (*sql.Conn, error)
	Close()
}
