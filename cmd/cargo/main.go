// Command cargo is the CLI driver for the container filesystem: it
// exposes every pkg/cargo facade operation as a subcommand, plus a
// `serve` subcommand that fronts a container with an HTTP/WebSocket
// server for non-Go clients.
package main

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/cargo/cmd/cargo/root"
)

func main() {
	if err := root.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
