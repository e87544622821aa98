// Package buildinfo provides build-time version information.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo

// Populated by the linker; the defaults identify an untagged local
// build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

// Info is the build information in a serializable form.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information for this binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
	}
}

// String returns a single-line version summary.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}
