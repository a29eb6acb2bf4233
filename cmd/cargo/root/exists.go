package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists <container-path> <name>",
		Short: "Check whether a live record with this name exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath, name := args[0], args[1]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			exists, err := instance.FileExists(name)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		},
	}

	return cmd
}
