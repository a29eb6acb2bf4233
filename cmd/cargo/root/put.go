package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <container-path> <name> <source-file>",
		Short: "Overwrite (or create) a record from a local file's contents",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerPath, name, sourcePath := args[0], args[1], args[2]

			content, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("reading source file: %w", err)
			}

			instance, err := openContainer(cmd, containerPath, 0)
			if err != nil {
				return err
			}
			defer instance.Close()

			return instance.OverwriteFile(name, content)
		},
	}

	return cmd
}
