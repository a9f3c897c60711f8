// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect selects the SQL flavour and the database/sql driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, "":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER %q", s)
}

type Config struct {
	Driver   Dialect
	URL      string // takes precedence over the individual parts when set
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string

	SQLitePath string
}

// DSN returns the data source name handed to sql.Open.
func (c Config) DSN() string {
	if c.Driver == SQLite {
		if c.SQLitePath == "" {
			return ":memory:"
		}
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// Open connects to the configured engine and pings it.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	log.Info().
		Str("driver", string(cfg.Driver)).
		Str("host", cfg.Host).
		Str("name", cfg.Name).
		Msg("connecting to database")

	conn, err := sql.Open(string(cfg.Driver), cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open DB")
	}

	if cfg.Driver == SQLite {
		// every connection to ":memory:" would otherwise see its own empty database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping DB")
	}

	log.Info().Msg("✅ Connected to database")
	return conn, nil
}

// Migrate creates the customer table if it does not exist yet.
func Migrate(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	schema, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return errors.Wrapf(err, "no schema for dialect %s", dialect)
	}

	if _, err = conn.ExecContext(ctx, string(schema)); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}

	log.Debug().Str("driver", string(dialect)).Msg("schema applied")
	return nil
}
