package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "du <container-path>",
		Short: "Print the remaining free bytes in the record area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath := args[0]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			available, err := instance.AvailableSpace()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), available)
			return nil
		},
	}

	return cmd
}
