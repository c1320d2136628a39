package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metailurini/sqlcontext/diag"
)

func newPingCmd(rt *Runtime, opts *globalOptions) *cobra.Command {
	var drift bool

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the database answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := openContext(cmd, rt, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			if !c.IsOnline(cmd.Context()) {
				fmt.Fprintf(out, "%s: offline\n", c.Descriptor())
				return fmt.Errorf("%s is offline", c.Descriptor())
			}
			fmt.Fprintf(out, "%s: online\n", c.Descriptor())

			if drift {
				d, err := diag.RecordClockDrift(cmd.Context(), c, rt.Clock, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "clock drift: %s\n", d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&drift, "drift", true, "Also report the server clock drift")

	return cmd
}
