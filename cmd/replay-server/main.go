package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"compreplay/internal/common"
	"compreplay/internal/replay"
	"compreplay/internal/server"
)

type cmdFlags struct {
	showVersionAndExit      *bool
	showVersionAndExitShort *bool
	configFile              *string
	listenAddr              *string
	sockPath                *string
	buildQueueSize          *int64
	buildTimeout            *int64
	logFileName             *string
	logLevel                *int64
	normalizeSeparators     *bool
}

func failedStart(message string, err error) {
	_, _ = fmt.Fprintln(os.Stderr, fmt.Sprint("failed to start replay-server: ", message, ": ", err))
	os.Exit(1)
}

// loadEnvFiles runs before flags are parsed, so that values from .env files are seen as COMPREPLAY_* env vars.
// That's why an env file can't be given as a flag, only as COMPREPLAY_ENV_FILE (default .env, if present).
func loadEnvFiles() error {
	if envFile, ok := os.LookupEnv("COMPREPLAY_ENV_FILE"); ok {
		return godotenv.Load(envFile)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func main() {
	if err := loadEnvFiles(); err != nil {
		failedStart("Failed to load env file", err)
	}

	flags := &cmdFlags{
		showVersionAndExit: common.CmdEnvBool("Show version and exit", false,
			"version"),
		showVersionAndExitShort: common.CmdEnvBool("Show version and exit", false,
			"v"),
		configFile: common.CmdEnvString("Configuration file (toml). Flags and env vars override values from it.", "",
			"config"),
		listenAddr: common.CmdEnvString("Binding address for grpc, default localhost:43210.\nEmpty to serve only a unix socket.", "",
			"listen"),
		sockPath: common.CmdEnvString("Unix socket path to serve, empty for none.", "",
			"sock"),
		buildQueueSize: common.CmdEnvInt("Max amount of builds running in parallel, default NumCPU.", 0,
			"build-queue-size"),
		buildTimeout: common.CmdEnvInt("A single build timeout in seconds, 0 for no limit, default 600.", 0,
			"build-timeout"),
		logFileName: common.CmdEnvString("A filename to log, by default use stderr.", "",
			"log-filename"),
		logLevel: common.CmdEnvInt("Logger verbosity level for INFO (-1 off, default 0, max 2).\nErrors are logged always.", 0,
			"log-verbosity"),
		normalizeSeparators: common.CmdEnvBool("Use separators of a mapping target in remapped paths.", false,
			"normalize-separators"),
	}

	if err := common.ParseCmdFlagsCombiningWithEnv(); err != nil {
		failedStart("Failed to parse flags", err)
	}

	if *flags.showVersionAndExit || *flags.showVersionAndExitShort {
		fmt.Println(common.GetVersion())
		os.Exit(0)
	}

	configuration, err := ParseConfiguration(*flags.configFile)
	if err != nil {
		failedStart("Failed to parse configuration", err)
	}
	configuration.applyCmdFlags(flags)
	if err := configuration.validate(); err != nil {
		failedStart("Invalid configuration", err)
	}

	if err = server.MakeLoggerServer(configuration.LogFileName, configuration.LogLevel); err != nil {
		failedStart("Can't init logger", err)
	}

	buildLauncher, err := server.MakeBuildLauncher(configuration.BuildQueueSize, time.Duration(configuration.BuildTimeout)*time.Second,
		replay.WithFallbackMappings(configuration.PathMappings),
		replay.WithNormalizeSeparators(configuration.NormalizeSeparators))
	if err != nil {
		failedStart("Failed to init build launcher", err)
	}

	s := server.MakeReplayServer(buildLauncher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	if configuration.ListenAddr != "" {
		g.Go(func() error {
			return s.StartGRPCListening(configuration.ListenAddr)
		})
	}
	if configuration.SockPath != "" {
		g.Go(func() error {
			defer os.Remove(configuration.SockPath)
			return s.SockListener.StartListeningUnixSocket(configuration.SockPath)
		})
	}
	g.Go(func() error {
		<-gCtx.Done()
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		s.QuitServerGracefully()
		return nil
	})

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := g.Wait(); err != nil {
		failedStart("Failed to listen", err)
	}
}
