package version

import "fmt"

var (
	Version = "0.1.0"
	Commit  = "dev"

	VersionString = fmt.Sprintf("fuel-accountant %s (%s)", Version, Commit)
)
