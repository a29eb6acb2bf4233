package root

import "github.com/spf13/cobra"

func newDefragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defrag <container-path>",
		Short: "Compact tombstoned space out of the record area on demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath := args[0]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			return instance.Defragment()
		},
	}

	return cmd
}
