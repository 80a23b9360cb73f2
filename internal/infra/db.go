package infra

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect - диалект SQL хранилища.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// StorageInitError means the store cannot be opened or prepared. It is fatal
// at startup.
type StorageInitError struct {
	Op  string
	Err error
}

func (e *StorageInitError) Error() string {
	return fmt.Sprintf("storage init (%s): %v", e.Op, e.Err)
}

func (e *StorageInitError) Unwrap() error { return e.Err }

// OpenDB opens and pings the database. For sqlite the DSN is a file path.
func OpenDB(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case DialectSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// один файл, одна запись за раз
			db.SetMaxOpenConns(1)
		}
	case DialectPostgres:
		db, err = sql.Open("postgres", dsn)
	default:
		return nil, &StorageInitError{Op: "open", Err: fmt.Errorf("unknown dialect %q", dialect)}
	}
	if err != nil {
		return nil, &StorageInitError{Op: "open", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &StorageInitError{Op: "ping", Err: err}
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// rebind переводит плейсхолдеры ? в $n для postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
