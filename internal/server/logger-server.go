package server

import (
	"compreplay/internal/common"
	"compreplay/internal/replay"
)

// anywhere in the server code, use logServer.Info() and other methods for logging
var logServer = common.MakeDiscardLogger()

// MakeLoggerServer installs the server logger, it's shared with the replay package
// so that build details land in the same log.
func MakeLoggerServer(logFile string, verbosity int) error {
	logger, err := common.MakeLogger("replay-server", logFile, verbosity, false)
	if err != nil {
		return err
	}
	logServer = logger
	replay.SetLogger(logger)
	return nil
}
