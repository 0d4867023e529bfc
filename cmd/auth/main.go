// Command auth runs the Noteful authentication service.
package main

import (
	"os"

	"github.com/aussiebroadwan/noteful/internal/auth/app"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = app.BuildVersion

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
