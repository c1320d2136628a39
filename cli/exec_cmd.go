package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExecCmd(rt *Runtime, opts *globalOptions) *cobra.Command {
	var stmt statementOptions

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run a statement and print the affected row count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := stmt.build()
			if err != nil {
				return err
			}
			c, _, err := openContext(cmd, rt, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			c.SetQuery(q)
			n, err := c.ExecuteAffecting(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}

	addStatementFlags(cmd, &stmt)

	return cmd
}

func addStatementFlags(cmd *cobra.Command, stmt *statementOptions) {
	cmd.Flags().StringVar(&stmt.sql, "sql", "", "Statement text, or the procedure name with --proc")
	cmd.Flags().StringArrayVar(&stmt.params, "param", nil, "Parameter as name=value, or a bare value for positional binding (repeatable)")
	cmd.Flags().BoolVar(&stmt.tx, "tx", false, "Run inside a transaction")
	cmd.Flags().StringVar(&stmt.isolation, "isolation", "read-committed", "Transaction isolation level")
	cmd.Flags().BoolVar(&stmt.proc, "proc", false, "Call a stored procedure")
	_ = cmd.MarkFlagRequired("sql")
}
