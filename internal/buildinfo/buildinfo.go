// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/commitsense/commitsense/internal/buildinfo.Version=v0.3.0
package buildinfo

import "runtime"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Details returns labelled build fields for version output.
func Details() [][2]string {
	return [][2]string{
		{"Commit", CommitHash},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
	}
}

// UserAgent identifies commitsense in outgoing HTTP requests.
func UserAgent() string {
	return "commitsense/" + Version
}
