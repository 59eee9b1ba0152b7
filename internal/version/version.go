// Package version exposes the build identity stamped into the trader
// binary. Release builds override the defaults with ldflags, e.g.
//
//	go build -ldflags "-X github.com/hjmartin/autobidder/internal/version.Version=0.3.0 \
//	                   -X github.com/hjmartin/autobidder/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git hash the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// String renders the identity for startup logs.
func String() string {
	s := Version
	if Commit != "unknown" {
		s += "+" + Commit
	}
	if BuildTime != "unknown" {
		s += " (" + BuildTime + ")"
	}
	return s
}
