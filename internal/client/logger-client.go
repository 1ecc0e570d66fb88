package client

import (
	"compreplay/internal/common"
	"compreplay/internal/replay"
)

// anywhere in the client code, use logClient.Info() and other methods for logging
var logClient = common.MakeDiscardLogger()

// MakeLoggerClient installs the client logger; local replays log into it as well.
// Errors are duplicated to stderr when logging to a file, a user must see them anyway.
func MakeLoggerClient(configuration *Configuration) error {
	logger, err := common.MakeLogger("replay", configuration.LogFileName, configuration.LogLevel, true)
	if err != nil {
		return err
	}
	logClient = logger
	replay.SetLogger(logger)
	return nil
}

func CloseLoggerClient() {
	logClient.Close()
}
