package version

// Set at build time with:
//
//	-ldflags "-X github.com/app-sre/overpass/pkg/version.version=v1.2.3"
var version = "devel"

func Version() string {
	return version
}
