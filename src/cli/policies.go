package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"threadsched/src/sched"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the available scheduling policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range sched.Names() {
				marker := ""
				if name == sched.DefaultPolicy {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
			}
			return nil
		},
	}
}
