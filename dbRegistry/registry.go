package dbRegistry

import (
	"crypto/tls"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	clokibase "github.com/metrico/cloki-config/config"

	"github.com/M-A-D-A-R-A/lmnr/config"
	"github.com/M-A-D-A-R-A/lmnr/model"
	"github.com/M-A-D-A-R-A/lmnr/utils/dsn"
	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
)

var Registry model.IDBRegistry

// Init opens one sqlx session per configured ClickHouse node and installs
// the shared registry the services query through.
func Init() {
	nodes := map[string]*model.DataDatabasesMap{}
	for _, base := range config.Cloki.Setting.DATABASE_DATA {
		nodes[base.Node] = openDataNode(base)
	}
	if len(nodes) == 0 {
		panic("We don't have any active DB session configured. Please check your config")
	}
	Registry = NewStaticDBRegistry(nodes)
}

func openDataNode(base clokibase.ClokiBaseDataBase) *model.DataDatabasesMap {
	stream := jsoniter.ConfigFastest.BorrowStream(nil)
	defer jsoniter.ConfigFastest.ReturnStream(stream)
	stream.WriteRaw("Connecting to [")
	stream.WriteRaw(base.Host)
	stream.WriteRaw(", ")
	stream.WriteRaw(base.User)
	stream.WriteRaw(", ")
	stream.WriteRaw(base.Name)
	stream.WriteRaw(", ")
	stream.WriteRaw(base.Node)
	stream.WriteRaw(", ")
	stream.WriteUint32(base.Port)
	stream.WriteRaw("]\n")
	logger.Info(string(stream.Buffer()))

	addr := base.Host + ":" + strconv.FormatUint(uint64(base.Port), 10)
	open := func() *sqlx.DB {
		opts := &clickhouse.Options{
			Addr: []string{addr},
			Auth: clickhouse.Auth{
				Database: base.Name,
				Username: base.User,
				Password: base.Password,
			},
			Debug: base.Debug,
		}
		if base.Secure {
			opts.TLS = &tls.Config{
				InsecureSkipVerify: base.InsecureSkipVerify,
			}
		}
		conn := clickhouse.OpenDB(opts)
		conn.SetMaxOpenConns(base.MaxOpenConn)
		conn.SetMaxIdleConns(base.MaxIdleConn)
		conn.SetConnMaxLifetime(time.Minute * 10)
		db := sqlx.NewDb(conn, "clickhouse")
		db.SetMaxOpenConns(base.MaxOpenConn)
		db.SetMaxIdleConns(base.MaxIdleConn)
		db.SetConnMaxLifetime(time.Minute * 10)
		return db
	}

	logger.Info("*** Database Config Session created *** ")
	return &model.DataDatabasesMap{
		Config: &base,
		Session: &dsn.StableSqlxDBWrapper{
			DB:    open(),
			GetDB: open,
			Name:  base.Node,
		},
	}
}
