package dbRegistry

import (
	"context"
	"sync"
	"time"

	"github.com/M-A-D-A-R-A/lmnr/model"
)

const pingFreshness = 30 * time.Second

type staticDBRegistry struct {
	databases []*model.DataDatabasesMap
	mtx       sync.Mutex
	next      int
	lastPing  time.Time
}

var _ model.IDBRegistry = &staticDBRegistry{}

func NewStaticDBRegistry(databases map[string]*model.DataDatabasesMap) model.IDBRegistry {
	res := &staticDBRegistry{lastPing: time.Now()}
	for _, d := range databases {
		res.databases = append(res.databases, d)
	}
	return res
}

// GetDB hands out configured nodes round robin.
func (s *staticDBRegistry) GetDB(ctx context.Context) (*model.DataDatabasesMap, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	db := s.databases[s.next%len(s.databases)]
	s.next++
	return db, nil
}

func (s *staticDBRegistry) Ping() error {
	s.mtx.Lock()
	fresh := time.Since(s.lastPing) < pingFreshness
	s.mtx.Unlock()
	if fresh {
		return nil
	}
	for _, v := range s.databases {
		if err := pingNode(v.Session); err != nil {
			return err
		}
	}
	s.mtx.Lock()
	s.lastPing = time.Now()
	s.mtx.Unlock()
	return nil
}

func pingNode(db model.ISqlxDB) error {
	conn, err := db.Conn(context.Background())
	if err != nil {
		return err
	}
	defer conn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	return conn.PingContext(ctx)
}
