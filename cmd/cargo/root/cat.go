package root

import (
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <container-path> <name>",
		Short: "Print a record's content to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath, name := args[0], args[1]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			content, err := instance.ReadFile(name)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}

	return cmd
}
