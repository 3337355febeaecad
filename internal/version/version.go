package version

import (
	"fmt"
	"runtime"
)

// Version and Commit are overridden at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = ""
)

// String formats the build identity printed by `cu version`.
func String() string {
	id := Version
	if Commit != "" {
		id += " (" + Commit + ")"
	}

	return fmt.Sprintf("cu %s %s/%s", id, runtime.GOOS, runtime.GOARCH)
}
