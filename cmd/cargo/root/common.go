package root

import (
	"fmt"
	"time"

	"github.com/iamNilotpal/cargo/pkg/cargo"
	"github.com/iamNilotpal/cargo/pkg/containerid"
	"github.com/iamNilotpal/cargo/pkg/options"
	"github.com/spf13/cobra"
)

// openContainer opens the container at path for the duration of a single
// CLI invocation. Capacity only takes effect the first time a path is
// formatted; reopening an existing container ignores it.
func openContainer(cmd *cobra.Command, path string, capacity int32) (*cargo.Instance, error) {
	if path == "" {
		return nil, fmt.Errorf("container path is required")
	}
	return cargo.Open(cmd.Context(), path, capacity, options.WithDefaultOptions())
}

// nextContainerID finds the next free sequence number for prefix within
// dir, for scaffolding a new container file's name.
func nextContainerID(dir, prefix string) (uint64, error) {
	id, err := containerid.NextID(dir, prefix)
	if err != nil {
		return 0, fmt.Errorf("computing next container id: %w", err)
	}
	return id, nil
}

func containerFileName(id uint64, prefix string) string {
	return containerid.GenerateName(id, prefix, time.Now().UnixNano())
}
