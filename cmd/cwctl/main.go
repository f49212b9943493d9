package main

import (
	"os"

	cwctlcmd "github.com/campuswatch/campuswatch/pkg/cwctl/cmd"
)

func main() {
	root := cwctlcmd.NewRootCommand(cwctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
