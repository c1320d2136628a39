package cli

import (
	"fmt"
	"strings"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/query"
)

// parseParams turns name=value flags into named parameters. Entries without
// "=" are positional; the two forms cannot be mixed.
func parseParams(raw []string) ([]query.Param, error) {
	params := make([]query.Param, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok {
			params = append(params, query.Arg(r))
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("parameter %q has no name: %w", r, apperrors.ErrInvalidArgument)
		}
		params = append(params, query.Named(name, value))
	}
	return params, nil
}

type statementOptions struct {
	sql       string
	params    []string
	tx        bool
	isolation string
	proc      bool
}

func (s statementOptions) build() (*query.Query, error) {
	params, err := parseParams(s.params)
	if err != nil {
		return nil, err
	}
	level, err := query.ParseIsolation(s.isolation)
	if err != nil {
		return nil, err
	}
	q := query.NewWithTx(s.sql, params, s.tx, level)
	if s.proc {
		q.Kind = query.StoredProcedure
	}
	return q, nil
}
