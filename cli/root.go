// Package cli implements the sqlctx command line: connectivity checks and
// ad-hoc statements against a configured database.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"

	"github.com/metailurini/sqlcontext/config"
	"github.com/metailurini/sqlcontext/dbcontext"
	"github.com/metailurini/sqlcontext/storage"
	"github.com/metailurini/sqlcontext/timeprovider"
)

// EnvPrefix namespaces the environment variables sqlctx reads.
const EnvPrefix = "SQLCTX"

// Runtime carries the process dependencies of the commands. Zero fields fall
// back to the real environment, filesystem and clock.
type Runtime struct {
	LookupEnv func(string) (string, bool)
	FS        billy.Filesystem
	Clock     timeprovider.Provider
}

func (rt *Runtime) defaults() {
	if rt.LookupEnv == nil {
		rt.LookupEnv = os.LookupEnv
	}
	if rt.FS == nil {
		rt.FS = osfs.New("/")
	}
	if rt.Clock == nil {
		rt.Clock = timeprovider.RealProvider{}
	}
}

type globalOptions struct {
	configPath  string
	conn        string
	dialect     string
	host        string
	database    string
	userKey     string
	passwordKey string
	timeout     time.Duration
	pooling     bool
	verbose     bool
}

// NewRootCmd creates the top-level "sqlctx" command and registers all
// subcommands.
func NewRootCmd(rt Runtime) *cobra.Command {
	rt.defaults()
	opts := &globalOptions{}

	defaultConn := "main"
	if v, ok := rt.LookupEnv(EnvPrefix + "_CONN"); ok && v != "" {
		defaultConn = v
	}

	root := &cobra.Command{
		Use:           "sqlctx",
		Short:         "Run statements through a managed database context",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML file with connectionStrings and settings")
	f.StringVar(&opts.conn, "conn", defaultConn, "Connection string key (env "+EnvPrefix+"_CONN)")
	f.StringVar(&opts.dialect, "dialect", "postgres", "Database dialect (postgres|mysql|sqlite)")
	f.StringVar(&opts.host, "host", "", "Host[:port]; with --database builds the connection instead of --conn")
	f.StringVar(&opts.database, "database", "", "Database name, or file path for sqlite")
	f.StringVar(&opts.userKey, "user-key", "db.user", "Setting key holding the user name")
	f.StringVar(&opts.passwordKey, "password-key", "db.password", "Setting key holding the password")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Connect timeout (busy timeout for sqlite)")
	f.BoolVar(&opts.pooling, "pooling", true, "Keep idle connections in a pool")
	f.BoolVar(&opts.verbose, "verbose", false, "Log every execution")

	root.AddCommand(
		newPingCmd(&rt, opts),
		newExecCmd(&rt, opts),
		newQueryCmd(&rt, opts),
	)

	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *globalOptions) provider(rt *Runtime) (config.Provider, error) {
	chain := config.Chain{}
	if o.configPath != "" {
		fp, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		chain = append(chain, fp)
	}
	return append(chain, config.EnvProvider{Prefix: EnvPrefix, Lookup: rt.LookupEnv}), nil
}

// openContext resolves the connection from the flags. Structured inputs win
// over a connection string key.
func openContext(cmd *cobra.Command, rt *Runtime, o *globalOptions) (*dbcontext.Context, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr(), o.verbose)
	dialect, err := storage.ParseDialect(o.dialect)
	if err != nil {
		return nil, nil, err
	}
	p, err := o.provider(rt)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := dbcontext.Config{Logger: logger, TimeProvider: rt.Clock}

	var c *dbcontext.Context
	if o.host != "" || o.database != "" {
		c, err = dbcontext.PrepareContextFrom(ctx, p, dbcontext.BuildOptions{
			Dialect:     dialect,
			Host:        o.host,
			Database:    o.database,
			UserKey:     o.userKey,
			PasswordKey: o.passwordKey,
			Timeout:     o.timeout,
			Pooling:     o.pooling,
		}, cfg)
	} else {
		c, err = dbcontext.PrepareContext(ctx, p, o.conn, dialect, cfg)
	}
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}
