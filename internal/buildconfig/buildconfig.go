// Package buildconfig exposes the version stamped into the binary with
//
//	go build -ldflags "-X github.com/SeoyeongHwang/AugmentedSelf-v0/internal/buildconfig.version=v1.2.0 \
//	  -X github.com/SeoyeongHwang/AugmentedSelf-v0/internal/buildconfig.commit=$(git rev-parse --short HEAD)"
package buildconfig

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String formats the build as "version (commit)" for startup logs.
func String() string {
	return fmt.Sprintf("%s (%s)", version, commit)
}

// VersionInfo is the build section of the /health response.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
