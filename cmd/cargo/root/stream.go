package root

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream <container-path> <name>",
		Short: "Stream a record's content to stdout without buffering it fully",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath, name := args[0], args[1]

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			rc, err := instance.OpenReadChannel(name)
			if err != nil {
				return err
			}
			defer rc.Close()

			if _, err := io.Copy(cmd.OutOrStdout(), rc); err != nil {
				return fmt.Errorf("streaming record: %w", err)
			}
			return nil
		},
	}

	return cmd
}
