package root

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iamNilotpal/cargo/cmd/cargo/registry"
	"github.com/iamNilotpal/cargo/pkg/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCreateCmd() *cobra.Command {
	var capacity int32
	var path string

	cmd := &cobra.Command{
		Use:   "create <prefix>",
		Short: "Scaffold a new container file in the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := args[0]
			workspace := viper.GetString("workspace")

			if path == "" {
				if err := os.MkdirAll(workspace, 0755); err != nil {
					return fmt.Errorf("creating workspace directory: %w", err)
				}

				id, err := nextContainerID(workspace, prefix)
				if err != nil {
					return err
				}
				path = filepath.Join(workspace, containerFileName(id, prefix))
			}

			instance, err := openContainer(cmd, path, capacity)
			if err != nil {
				return err
			}
			defer instance.Close()

			regPath := filepath.Join(workspace, "registry.json")
			entry := registry.Entry{Name: prefix, Path: path, Capacity: capacity, CreatedAt: time.Now()}
			if err := registry.Append(regPath, entry); err != nil {
				return fmt.Errorf("recording container in registry: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().Int32Var(&capacity, "capacity", options.MinCapacity, "record-area capacity in bytes (only applies the first time this path is formatted)")
	cmd.Flags().StringVar(&path, "path", "", "explicit backing-file path (default: scaffolded under --workspace)")

	return cmd
}
