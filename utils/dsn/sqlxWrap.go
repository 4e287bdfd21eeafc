package dsn

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
)

// StableSqlxDBWrapper reopens the underlying sqlx handle after a failed
// request so one broken connection does not poison the session forever.
type StableSqlxDBWrapper struct {
	DB    *sqlx.DB
	mtx   sync.RWMutex
	GetDB func() *sqlx.DB
	Name  string
}

func (s *StableSqlxDBWrapper) QueryCtx(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	s.mtx.RLock()
	rows, err := s.DB.QueryContext(ctx, query, args...)
	s.mtx.RUnlock()
	if err != nil {
		s.reopen(err)
	}
	return rows, err
}

func (s *StableSqlxDBWrapper) ExecCtx(ctx context.Context, query string, args ...any) error {
	s.mtx.RLock()
	_, err := s.DB.ExecContext(ctx, query, args...)
	s.mtx.RUnlock()
	if err != nil {
		s.reopen(err)
	}
	return err
}

func (s *StableSqlxDBWrapper) reopen(cause error) {
	logger.Error(s.Name, ": ", cause)
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.DB.Close()
	s.DB = s.GetDB()
}

func (s *StableSqlxDBWrapper) Conn(ctx context.Context) (*sql.Conn, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.DB.Conn(ctx)
}

func (s *StableSqlxDBWrapper) Close() {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	s.DB.Close()
}
