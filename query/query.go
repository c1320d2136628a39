package query

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/util"
)

// Kind says how the statement text is interpreted.
type Kind int

const (
	// Text runs the statement text as-is.
	Text Kind = iota
	// StoredProcedure treats the text as a procedure name; the dialect renders
	// the call statement.
	StoredProcedure
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case StoredProcedure:
		return "stored_procedure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultIsolation is applied when a descriptor does not name an isolation level.
const DefaultIsolation = sql.LevelReadCommitted

// Param is one bound value. An empty Name marks a positional parameter.
type Param struct {
	Name  string
	Value any
}

// Named builds a named parameter. Leading @, : or $ markers are stripped so
// "@id" and "id" bind the same placeholder.
func Named(name string, value any) Param {
	return Param{Name: strings.TrimLeft(name, "@:$"), Value: value}
}

// Arg builds a positional parameter.
func Arg(value any) Param {
	return Param{Value: value}
}

// Query describes one SQL statement. Build it with New, NewWithParams,
// NewWithTx or Procedure, hand it to a dbcontext.Context, and do not mutate it
// while an execution is in flight. Sequential reuse is fine.
type Query struct {
	Text        string
	Params      []Param
	Transaction bool
	Isolation   sql.IsolationLevel
	Kind        Kind
}

// New builds a plain text statement without parameters or transaction.
func New(text string) *Query {
	return &Query{
		Text:      text,
		Isolation: DefaultIsolation,
		Kind:      Text,
	}
}

// NewWithParams builds a text statement with the given parameters attached.
func NewWithParams(text string, params ...Param) *Query {
	q := New(text)
	q.Params = copyParams(params)
	return q
}

// NewWithTx builds a fully specified text statement. sql.LevelDefault selects
// DefaultIsolation.
func NewWithTx(text string, params []Param, withTx bool, isolation sql.IsolationLevel) *Query {
	q := NewWithParams(text, params...)
	q.Transaction = withTx
	if isolation != sql.LevelDefault {
		q.Isolation = isolation
	}
	return q
}

// Procedure builds a stored procedure call.
func Procedure(name string, params ...Param) *Query {
	q := NewWithParams(name, params...)
	q.Kind = StoredProcedure
	return q
}

// Bind replaces the parameter list, for rerunning the same statement with new
// values.
func (q *Query) Bind(params ...Param) {
	q.Params = copyParams(params)
}

// Parameters returns the parameters in their bound order.
func (q *Query) Parameters() []Param {
	return copyParams(q.Params)
}

// Clone returns a copy that shares nothing mutable with q.
func (q *Query) Clone() Query {
	c := *q
	c.Params = copyParams(q.Params)
	return c
}

// Validate reports whether q can be executed.
func (q *Query) Validate() error {
	if q == nil {
		return fmt.Errorf("no query assigned: %w", apperrors.ErrInvalidQuery)
	}
	if util.IsBlank(q.Text) {
		return fmt.Errorf("query text is empty: %w", apperrors.ErrInvalidQuery)
	}
	if q.Kind != Text && q.Kind != StoredProcedure {
		return fmt.Errorf("unknown command %s: %w", q.Kind, apperrors.ErrInvalidQuery)
	}
	if _, err := q.IsNamed(); err != nil {
		return err
	}
	return nil
}

// IsNamed reports whether the parameters are bound by name. Mixing named and
// positional parameters is rejected.
func (q *Query) IsNamed() (bool, error) {
	named, positional := 0, 0
	for _, p := range q.Params {
		if p.Name == "" {
			positional++
		} else {
			named++
		}
	}
	if named > 0 && positional > 0 {
		return false, fmt.Errorf("mix of named and positional parameters: %w", apperrors.ErrInvalidQuery)
	}
	return named > 0, nil
}

func (q *Query) String() string {
	return fmt.Sprintf("%s %q (%d params, tx=%t)", q.Kind, q.Text, len(q.Params), q.Transaction)
}

func copyParams(params []Param) []Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]Param, len(params))
	copy(out, params)
	return out
}
