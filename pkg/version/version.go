// Package version exposes build information for the postfeed binary.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Build-time variables, set via -ldflags.
//
//nolint:gochecknoglobals // Populated by the linker at build time.
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the raw version string.
func GetVersion() string {
	return version
}

// GetGitCommit returns the git commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build date.
func GetBuildDate() string {
	return buildDate
}

// Parse parses the build version as a semantic version.
// A leading "v" is accepted.
func Parse() (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("parsing build version %q: %w", version, err)
	}
	return v, nil
}

// IsPrerelease reports whether the build version carries a prerelease tag.
// Unparseable versions are treated as prereleases.
func IsPrerelease() bool {
	v, err := Parse()
	if err != nil {
		return true
	}
	return v.Prerelease() != ""
}

// String returns a one-line description suitable for `postfeed version`.
func String() string {
	return fmt.Sprintf("postfeed %s (commit %s, built %s)", version, gitCommit, buildDate)
}
