package replay

import "compreplay/internal/common"

// anywhere in the replay code, use logReplay.Info() and other methods for logging
// until SetLogger is called, everything is discarded
var logReplay = common.MakeDiscardLogger()

// SetLogger is called once at startup by a binary hosting replays (the CLI or the server).
func SetLogger(logger *common.LoggerWrapper) {
	logReplay = logger
}
