package version

import (
	"runtime/debug"
)

const (
	ModulePath = "github.com/curtisnewbie/lockset"
)

var (
	Version = "v0.1.0"
)

func init() {
	if ver := ReadBuildVersion(); ver != "" {
		Version = ver
	}
}

// Read lockset version from build info, returns empty string if it's unknown.
//
// Binaries built inside the module report "(devel)", which is ignored.
func ReadBuildVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if buildInfo.Main.Path == ModulePath && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, dep := range buildInfo.Deps {
		if dep.Path == ModulePath {
			return dep.Version
		}
	}
	return ""
}
