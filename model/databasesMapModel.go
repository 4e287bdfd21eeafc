package model

import "github.com/metrico/cloki-config/config"

// DataDatabasesMap pairs one configured ClickHouse node with its live
// session.
type DataDatabasesMap struct {
	Config  *config.ClokiBaseDataBase
	Session ISqlxDB
}
