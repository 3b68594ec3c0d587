// Package buildinfo holds release metadata injected with -ldflags.
package buildinfo

// Set with -ldflags "-X github.com/gdpp-dev/gdpp/internal/buildinfo.Version=..."
// for release builds. They stay empty in local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
