package storage

import (
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/query"
)

// Dialect selects the driver and the SQL conventions used to talk to a
// database family.
type Dialect string

const (
	// Postgres runs on the pgx driver. Named parameters use @name.
	Postgres Dialect = "postgres"
	// MySQL runs on go-sql-driver/mysql. Named parameters use :name and are
	// rewritten to ? placeholders.
	MySQL Dialect = "mysql"
	// SQLite runs on modernc.org/sqlite. Named parameters use @name, :name or $name.
	SQLite Dialect = "sqlite"
)

var dialectAliases = map[string]Dialect{
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pg":         Postgres,
	"pgx":        Postgres,
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
}

// ParseDialect resolves a dialect name or common alias.
func ParseDialect(s string) (Dialect, error) {
	d, ok := dialectAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown dialect %q: %w", s, apperrors.ErrInvalidArgument)
	}
	return d, nil
}

// DriverName is the database/sql driver name registered for d.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return ""
	}
}

// DSNConfig holds the discrete inputs a connection string is built from.
type DSNConfig struct {
	Host     string
	Database string
	User     string
	Password string
	// Timeout is the connect timeout for network dialects and the busy
	// timeout for SQLite. Zero leaves the driver default.
	Timeout time.Duration
}

// BuildDSN renders cfg in the connection string format of d. For SQLite the
// Database is the file path and Host, User and Password are ignored.
func (d Dialect) BuildDSN(cfg DSNConfig) (string, error) {
	if cfg.Database == "" {
		return "", fmt.Errorf("database is required: %w", apperrors.ErrInvalidArgument)
	}
	if d != SQLite && cfg.Host == "" {
		return "", fmt.Errorf("host is required: %w", apperrors.ErrInvalidArgument)
	}

	switch d {
	case Postgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   cfg.Host,
			Path:   "/" + cfg.Database,
		}
		if cfg.Timeout > 0 {
			u.RawQuery = url.Values{"connect_timeout": {strconv.Itoa(ceilSeconds(cfg.Timeout))}}.Encode()
		}
		return u.String(), nil
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host
		mc.DBName = cfg.Database
		mc.Timeout = cfg.Timeout
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case SQLite:
		dsn := cfg.Database
		if cfg.Timeout > 0 {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=busy_timeout(" + strconv.FormatInt(cfg.Timeout.Milliseconds(), 10) + ")"
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("dialect %q: %w", d, apperrors.ErrNotSupported)
	}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// Bind renders q into the statement text and argument list the driver for d
// expects. Stored procedures become CALL statements.
func (d Dialect) Bind(q query.Query) (string, []any, error) {
	if d.DriverName() == "" {
		return "", nil, fmt.Errorf("dialect %q: %w", d, apperrors.ErrNotSupported)
	}
	named, err := q.IsNamed()
	if err != nil {
		return "", nil, err
	}

	text := q.Text
	if q.Kind == query.StoredProcedure {
		text, err = d.callStatement(q.Text, q.Params, named)
		if err != nil {
			return "", nil, err
		}
	}
	if len(q.Params) == 0 {
		return text, nil, nil
	}
	if !named {
		return text, values(q.Params), nil
	}

	switch d {
	case Postgres:
		args := make(pgx.NamedArgs, len(q.Params))
		for _, p := range q.Params {
			args[p.Name] = p.Value
		}
		return text, []any{args}, nil
	case MySQL:
		if q.Kind == query.StoredProcedure {
			return text, values(q.Params), nil
		}
		byName := make(map[string]any, len(q.Params))
		for _, p := range q.Params {
			byName[p.Name] = p.Value
		}
		bound, args, err := sqlx.Named(text, byName)
		if err != nil {
			return "", nil, fmt.Errorf("bind named parameters: %v: %w", err, apperrors.ErrInvalidQuery)
		}
		return bound, args, nil
	default:
		args := make([]any, len(q.Params))
		for i, p := range q.Params {
			args[i] = sql.Named(p.Name, p.Value)
		}
		return text, args, nil
	}
}

func (d Dialect) callStatement(name string, params []query.Param, named bool) (string, error) {
	placeholders := make([]string, len(params))
	for i, p := range params {
		switch {
		case d == MySQL:
			placeholders[i] = "?"
		case named:
			placeholders[i] = "@" + p.Name
		default:
			placeholders[i] = "$" + strconv.Itoa(i+1)
		}
	}
	switch d {
	case Postgres, MySQL:
		return "CALL " + strings.TrimSpace(name) + "(" + strings.Join(placeholders, ", ") + ")", nil
	default:
		return "", fmt.Errorf("%s stored procedures: %w", d, apperrors.ErrNotSupported)
	}
}

func values(params []query.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.Value
	}
	return out
}

// TxOptions maps an isolation level onto what the driver accepts. SQLite
// transactions are always serializable, so the driver default is requested.
func (d Dialect) TxOptions(level sql.IsolationLevel) *sql.TxOptions {
	if d == SQLite {
		return &sql.TxOptions{Isolation: sql.LevelDefault}
	}
	return &sql.TxOptions{Isolation: level}
}

// NowQuery returns a statement selecting the server's current time. MySQL
// reads UTC_TIMESTAMP so the result does not depend on the session time zone.
func (d Dialect) NowQuery() string {
	switch d {
	case MySQL:
		return "SELECT UTC_TIMESTAMP(6)"
	case SQLite:
		return "SELECT strftime('%Y-%m-%dT%H:%M:%fZ', 'now')"
	default:
		return "SELECT now()"
	}
}
