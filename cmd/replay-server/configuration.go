package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"compreplay/internal/common"
)

type Configuration struct {
	ListenAddr          string
	SockPath            string
	BuildQueueSize      int64
	BuildTimeout        int // seconds, 0 means no limit
	LogFileName         string
	LogLevel            int
	NormalizeSeparators bool
	PathMappings        []common.PathMapping
}

func DefaultConfiguration() Configuration {
	return Configuration{
		ListenAddr:     "localhost:43210",
		BuildQueueSize: int64(runtime.NumCPU()),
		BuildTimeout:   10 * 60, // 10 minutes
		LogFileName:    "stderr",
		LogLevel:       0,
	}
}

// ParseConfiguration decodes filePath over defaults; an empty filePath means defaults only.
// A key that matches no field is an error, a misspelled option must not be silently ignored.
func ParseConfiguration(filePath string) (*Configuration, error) {
	config := DefaultConfiguration()
	if filePath != "" {
		meta, err := toml.DecodeFile(filePath, &config)
		if err != nil {
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
	return &config, nil
}

// applyCmdFlags makes flags and COMPREPLAY_* env vars win over the configuration file.
func (config *Configuration) applyCmdFlags(flags *cmdFlags) {
	if common.IsCmdFlagSet("listen") {
		config.ListenAddr = *flags.listenAddr
	}
	if common.IsCmdFlagSet("sock") {
		config.SockPath = *flags.sockPath
	}
	if common.IsCmdFlagSet("build-queue-size") {
		config.BuildQueueSize = *flags.buildQueueSize
	}
	if common.IsCmdFlagSet("build-timeout") {
		config.BuildTimeout = int(*flags.buildTimeout)
	}
	if common.IsCmdFlagSet("log-filename") {
		config.LogFileName = *flags.logFileName
	}
	if common.IsCmdFlagSet("log-verbosity") {
		config.LogLevel = int(*flags.logLevel)
	}
	if common.IsCmdFlagSet("normalize-separators") {
		config.NormalizeSeparators = *flags.normalizeSeparators
	}
}

func (config *Configuration) validate() error {
	if config.ListenAddr == "" && config.SockPath == "" {
		return fmt.Errorf("nothing to listen: both ListenAddr and SockPath are empty")
	}
	if config.BuildQueueSize <= 0 {
		return fmt.Errorf("invalid BuildQueueSize %d", config.BuildQueueSize)
	}
	if config.BuildTimeout < 0 {
		return fmt.Errorf("invalid BuildTimeout %d", config.BuildTimeout)
	}

	mappings, err := common.ExpandPathMappingTargets(config.PathMappings)
	if err != nil {
		return err
	}
	config.PathMappings = mappings
	return nil
}
