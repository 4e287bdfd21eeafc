package model

import "context"

// IDBRegistry hands out ClickHouse sessions to the query services and lets
// the watchdog probe node health.
type IDBRegistry interface {
	GetDB(ctx context.Context) (*DataDatabasesMap, error)
	Ping() error
}
