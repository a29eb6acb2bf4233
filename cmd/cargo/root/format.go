package root

import "github.com/spf13/cobra"

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <container-path>",
		Short: "Reset append_cursor to 0, discarding every record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath := args[0]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			return instance.Format()
		},
	}

	return cmd
}
