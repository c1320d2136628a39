package dbcontext

import (
	"fmt"
	"time"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/config"
	"github.com/metailurini/sqlcontext/storage"
)

// BuiltName is the descriptor name used for connections assembled from
// BuildOptions rather than looked up by key.
const BuiltName = "built"

// ConnectionDescriptor identifies the database a Context talks to. It is
// resolved once, when the Context is built, and never changes afterwards.
type ConnectionDescriptor struct {
	Name    string
	Dialect storage.Dialect
	DSN     string
	Pooling bool
}

// String omits the DSN, which carries credentials.
func (d ConnectionDescriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Dialect)
}

// BuildOptions describes a connection assembled from discrete inputs. The user
// and password are not given directly; they are read from the configuration
// provider under UserKey and PasswordKey.
type BuildOptions struct {
	Dialect     storage.Dialect
	Host        string
	Database    string
	UserKey     string
	PasswordKey string
	Timeout     time.Duration
	Pooling     bool
}

// ResolveKey looks up the connection string stored under name. An empty
// dialect selects Postgres. Pooling is enabled.
func ResolveKey(p config.Provider, name string, dialect storage.Dialect) (ConnectionDescriptor, error) {
	if p == nil {
		return ConnectionDescriptor{}, fmt.Errorf("configuration provider is required: %w", apperrors.ErrNotConfigured)
	}
	if dialect == "" {
		dialect = storage.Postgres
	}
	dsn, err := p.ConnectionString(name)
	if err != nil {
		return ConnectionDescriptor{}, err
	}
	return ConnectionDescriptor{Name: name, Dialect: dialect, DSN: dsn, Pooling: true}, nil
}

// ResolveBuild assembles a connection string from opts, reading credentials
// from p. SQLite needs neither host nor credentials.
func ResolveBuild(p config.Provider, opts BuildOptions) (ConnectionDescriptor, error) {
	if p == nil {
		return ConnectionDescriptor{}, fmt.Errorf("configuration provider is required: %w", apperrors.ErrNotConfigured)
	}
	if opts.Dialect == "" {
		opts.Dialect = storage.Postgres
	}
	cfg := storage.DSNConfig{
		Host:     opts.Host,
		Database: opts.Database,
		Timeout:  opts.Timeout,
	}
	if opts.Dialect != storage.SQLite {
		user, err := p.Setting(opts.UserKey)
		if err != nil {
			return ConnectionDescriptor{}, fmt.Errorf("user: %w", err)
		}
		password, err := p.Setting(opts.PasswordKey)
		if err != nil {
			return ConnectionDescriptor{}, fmt.Errorf("password: %w", err)
		}
		cfg.User, cfg.Password = user, password
	}
	dsn, err := opts.Dialect.BuildDSN(cfg)
	if err != nil {
		return ConnectionDescriptor{}, err
	}
	return ConnectionDescriptor{Name: BuiltName, Dialect: opts.Dialect, DSN: dsn, Pooling: opts.Pooling}, nil
}
