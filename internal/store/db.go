package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/domain"
)

type dbOps interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// DB is the catalog handle. Inside RunInTx the same type is bound to the
// transaction, so repository methods work unchanged in both cases.
type DB struct {
	dbOps
	root *sqlx.DB
	inTx bool
}

// NewSQLiteDB opens the database at path and applies the schema.
func NewSQLiteDB(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open db: %w", domain.ErrStorageUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping db: %w", domain.ErrStorageUnavailable, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to apply schema: %w", domain.ErrStorageUnavailable, err)
	}

	return &DB{dbOps: db, root: db}, nil
}

// buildDSN sets the pragmas per connection, so every pooled connection gets
// WAL, the busy timeout and foreign keys. Write transactions start IMMEDIATE
// so concurrent writers queue on the busy timeout instead of failing.
func buildDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", constants.DefaultBusyTimeout.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

func (db *DB) Close() error {
	return db.root.Close()
}

// Opener hands out one shared DB for the whole process. The first Open call
// does the work; concurrent and later callers get the same handle or error.
type Opener struct {
	db   *DB
	err  error
	path string
	once sync.Once
}

func NewOpener(path string) *Opener {
	return &Opener{path: path}
}

func (o *Opener) Open() (*DB, error) {
	o.once.Do(func() {
		o.db, o.err = NewSQLiteDB(o.path)
	})
	return o.db, o.err
}
