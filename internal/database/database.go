package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// ErrInMemorySQLite rejects sqlite DSNs whose data lives only as long as one
// connection: migrations and the pool never share that connection.
var ErrInMemorySQLite = errors.New("in-memory sqlite databases are not supported, use DB_DRIVER=memory instead")

// IsInMemorySQLite reports whether dsn names a sqlite database that is not
// backed by a file.
func IsInMemorySQLite(dsn string) bool {
	path, query, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")
	return path == "" || path == ":memory:" || strings.Contains(query, "mode=memory")
}

// DBService wraps the connection pool together with the driver it was opened with.
type DBService struct {
	DB     *sql.DB
	Driver string
}

// Open establishes a connection pool for driver and pings it.
func Open(ctx context.Context, driver, connStr string) (*DBService, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if connStr == "" {
		return nil, fmt.Errorf("missing database connection string")
	}

	if driver == DriverSQLite {
		if IsInMemorySQLite(connStr) {
			return nil, ErrInMemorySQLite
		}
		connStr = withSQLitePragmas(connStr)
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &DBService{DB: db, Driver: driver}, nil
}

// withSQLitePragmas enables foreign keys on every connection and stores times
// in a sortable text layout.
func withSQLitePragmas(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Health pings the database and reports its state along with pool statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	return stats
}

func (s *DBService) Close() error {
	log.Info().Str("driver", s.Driver).Msg("closing database connection")
	return s.DB.Close()
}

// Rebind rewrites '?' placeholders into the form the driver expects.
func (s *DBService) Rebind(query string) string {
	return Rebind(s.Driver, query)
}

func Rebind(driver, query string) string {
	if driver != DriverPostgres {
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
