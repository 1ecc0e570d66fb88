package common

// version is set via -ldflags "-X compreplay/internal/common.version=..."
var version = "dev"

func GetVersion() string {
	return version
}
