// omctl is the command line client of omserver.
package main

import (
	"os"

	"github.com/xAGI-labs/ProjectOM/internal/omctl"
)

func main() {
	command := omctl.NewDefaultOMCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
