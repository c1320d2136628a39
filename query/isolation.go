package query

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/metailurini/sqlcontext/apperrors"
)

var isolationNames = map[string]sql.IsolationLevel{
	"default":          sql.LevelDefault,
	"read-uncommitted": sql.LevelReadUncommitted,
	"read-committed":   sql.LevelReadCommitted,
	"write-committed":  sql.LevelWriteCommitted,
	"repeatable-read":  sql.LevelRepeatableRead,
	"snapshot":         sql.LevelSnapshot,
	"serializable":     sql.LevelSerializable,
	"linearizable":     sql.LevelLinearizable,
}

// ParseIsolation accepts names such as "read-committed", "READ COMMITTED" or
// "read_committed".
func ParseIsolation(s string) (sql.IsolationLevel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	if key == "" {
		return DefaultIsolation, nil
	}
	level, ok := isolationNames[key]
	if !ok {
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q: %w", s, apperrors.ErrInvalidArgument)
	}
	return level, nil
}
