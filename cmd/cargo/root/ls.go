package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <container-path>",
		Short: "List live record names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath := args[0]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			names, err := instance.ListFiles()
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	return cmd
}
