package root

import "github.com/spf13/cobra"

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <container-path> <name>",
		Short: "Delete a record (tombstones it; space is reclaimed on defragment)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath, name := args[0], args[1]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			return instance.DeleteFile(name)
		},
	}

	return cmd
}
