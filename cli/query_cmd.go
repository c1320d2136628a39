package cli

import (
	"bytes"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metailurini/sqlcontext/dbcontext"
	"github.com/metailurini/sqlcontext/util"
)

func newQueryCmd(rt *Runtime, opts *globalOptions) *cobra.Command {
	var (
		stmt    statementOptions
		outDir  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a read and print the rows as tab separated values",
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
			table, err := dbcontext.ExecuteMapped(cmd.Context(), c, renderTSV)
			if err != nil {
				return err
			}

			if outDir == "" {
				_, err = cmd.OutOrStdout().Write(table.Bytes())
				return err
			}
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return err
			}
			if err := util.ToFile(rt.FS, dir, outFile, bytes.NewReader(table.Bytes())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(dir, outFile))
			return nil
		},
	}

	addStatementFlags(cmd, &stmt)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write the rows to a file in this directory instead of stdout")
	cmd.Flags().StringVar(&outFile, "out-file", "result.tsv", "File name used with --out-dir")

	return cmd
}

// renderTSV writes a header line and one line per row. NULL renders as \N.
func renderTSV(rows *sql.Rows) (*bytes.Buffer, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(strings.Join(cols, "\t"))
	buf.WriteByte('\n')

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	cells := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range values {
			switch v := v.(type) {
			case nil:
				cells[i] = `\N`
			case []byte:
				cells[i] = string(v)
			default:
				cells[i] = fmt.Sprint(v)
			}
		}
		buf.WriteString(strings.Join(cells, "\t"))
		buf.WriteByte('\n')
	}
	return &buf, rows.Err()
}
