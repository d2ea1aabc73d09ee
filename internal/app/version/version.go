package version

// Default values are overridden at build time via -ldflags.
// Keep these lower-case so ldflags can set them without exporting internals.
var (
	buildVersion = "dev"
	builtAt      = "unknown"
)

// Info represents the running build metadata.
type Info struct {
	BuildVersion string `json:"buildVersion"`
	BuiltAt      string `json:"builtAt"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		BuildVersion: buildVersion,
		BuiltAt:      builtAt,
	}
}

func (i Info) String() string {
	if i.BuiltAt == "" || i.BuiltAt == "unknown" {
		return i.BuildVersion
	}
	return i.BuildVersion + " (built " + i.BuiltAt + ")"
}
