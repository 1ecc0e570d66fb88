package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"compreplay/internal/common"
)

type Configuration struct {
	Server              string
	SockPath            string
	SocksProxyAddr      string
	ConnectionTimeout   int
	InvocationTimeout   int
	LogFileName         string
	LogLevel            int
	NormalizeSeparators bool
	PathMappings        []common.PathMapping
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Server:            "localhost:43210",
		LogFileName:       "stderr",
		LogLevel:          0,
		InvocationTimeout: 10 * 60, // 10 minutes
		ConnectionTimeout: 15,      // 15 seconds
	}
}

// DefaultConfigurationPath is ~/.config/compreplay/replay.toml (or what the OS calls a config dir).
func DefaultConfigurationPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "compreplay", "replay.toml")
}

// ParseConfiguration decodes filePath over defaults. A missing file means defaults.
// Targets of PathMappings may reference env variables, they are expanded here.
func ParseConfiguration(filePath string) (*Configuration, error) {
	config := DefaultConfiguration()
	if filePath != "" {
		meta, err := toml.DecodeFile(filePath, &config)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) != 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			return nil, fmt.Errorf("%s: unknown keys: %s", filePath, strings.Join(keys, ", "))
		}
	}

	if config.ConnectionTimeout <= 0 || config.InvocationTimeout <= 0 {
		return nil, fmt.Errorf("%s: timeouts must be positive", filePath)
	}

	mappings, err := common.ExpandPathMappingTargets(config.PathMappings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	config.PathMappings = mappings
	return &config, nil
}
