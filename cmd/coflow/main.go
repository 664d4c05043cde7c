package main

import (
	"os"

	"github.com/RamadanElSayed/coflow/cmd/coflow/commands"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := commands.Execute(Version, BuildTime); err != nil {
		os.Exit(1)
	}
}
