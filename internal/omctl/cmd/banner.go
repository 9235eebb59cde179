package cmd

import (
	"fmt"

	"github.com/xAGI-labs/ProjectOM/pkg/version"
)

const bannerText = `
   ___             _ __  __
  / _ \ _ __ ___  | '_ \/ _|
 | | | | '_ ` + "`" + ` _ \ | |_) | |_ 
 | |_| | | | | | || .__/|  _|
  \___/|_| |_| |_||_|   |_|

      OpenManus task control
`

// Banner returns the CLI banner string.
func Banner() string {
	return fmt.Sprintf("%s\n  Version: %s\n", bannerText, version.Get().String())
}
