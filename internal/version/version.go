package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/bookproc/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// MdbookVersion is the mdBook release whose preprocessor protocol this build speaks.
var MdbookVersion = "0.4.40"

// Compatible reports whether host satisfies a caret requirement on target:
// same major version (same minor while major is 0) and not older than target.
// ok is false when either version fails to parse.
func Compatible(target, host string) (compatible, ok bool) {
	t, h := canonical(target), canonical(host)
	if !semver.IsValid(t) || !semver.IsValid(h) {
		return false, false
	}
	if semver.Compare(h, t) < 0 {
		return false, true
	}
	if semver.Major(t) == "v0" {
		return semver.MajorMinor(h) == semver.MajorMinor(t), true
	}
	return semver.Major(h) == semver.Major(t), true
}

// CompatibleWith checks the host mdBook version against MdbookVersion.
func CompatibleWith(host string) (compatible, ok bool) {
	return Compatible(MdbookVersion, host)
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
