// omserver exposes the OpenManus tools over MCP and runs prompts as background tasks.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/xAGI-labs/ProjectOM/internal/omserver"
)

func main() {
	omserver.NewApp("omserver").Run()
}
