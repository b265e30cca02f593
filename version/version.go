// Package version holds build information injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag (or "dev" for local builds).
	GitRelease = "dev"
	// GitCommit is the commit the binary was built from.
	GitCommit = "none"
	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"
	// GoInfo describes the toolchain and platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
