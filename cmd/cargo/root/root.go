// Package root assembles the cargo CLI's command tree.
package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the top-level `cargo` command and wires every
// subcommand onto it. Persistent flags are bound into viper so the same
// keys can also come from CARGO_-prefixed environment variables or a
// ~/.cargo.yaml config file (both read by initConfig) without each
// command re-declaring them.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cargo <command> [flags]",
		Short: "A fixed-size, single-file container store",
		Long: `cargo manages container files: fixed-capacity backing files that
store named binary blobs with create/read/delete/list/defragment
operations, addressable from the command line or over HTTP.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("workspace", defaultWorkspace(), "directory holding scaffolded container files")
	_ = viper.BindPFlag("workspace", cmd.PersistentFlags().Lookup("workspace"))

	cmd.AddCommand(
		newCreateCmd(),
		newPutCmd(),
		newCatCmd(),
		newStreamCmd(),
		newRmCmd(),
		newLsCmd(),
		newExistsCmd(),
		newDuCmd(),
		newDefragCmd(),
		newFormatCmd(),
		newServeCmd(),
	)

	return cmd
}

func defaultWorkspace() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cargo"
	}
	return filepath.Join(home, ".cargo")
}

func initConfig() error {
	viper.SetEnvPrefix("CARGO")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".cargo")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return nil
}
