package server

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"compreplay/internal/replay"
)

// BuildLauncher replays serialized invocations managing a waiting queue.
// The purpose of a waiting queue is not to over-utilize server resources at peak times:
// every build reads all sources of a project into memory.
// Builds don't share anything (each one owns its workspace), so the queue is the only synchronization.
type BuildLauncher struct {
	buildThrottle chan struct{}
	buildTimeout  time.Duration
	builder       *replay.Builder

	nBuildsStarted atomic.Int64
	nBuildsFailed  atomic.Int64
}

func MakeBuildLauncher(maxParallelBuilds int64, buildTimeout time.Duration, opts ...replay.BuilderOption) (*BuildLauncher, error) {
	if maxParallelBuilds <= 0 {
		return nil, fmt.Errorf("invalid maxParallelBuilds %d", maxParallelBuilds)
	}
	if buildTimeout < 0 {
		return nil, fmt.Errorf("invalid buildTimeout %v", buildTimeout)
	}

	return &BuildLauncher{
		buildThrottle: make(chan struct{}, maxParallelBuilds),
		buildTimeout:  buildTimeout,
		builder:       replay.NewBuilder(opts...),
	}, nil
}

// LaunchBuildWhenPossible deserializes an invocation and replays it as soon as a slot in the queue is free.
// A malformed descriptor is rejected before queueing.
// Waiting in the queue is bounded by ctx only, buildTimeout limits the build itself.
func (launcher *BuildLauncher) LaunchBuildWhenPossible(ctx context.Context, serializedText string) (replay.Summary, error) {
	descriptor, err := replay.LoadDescriptor(serializedText)
	if err != nil {
		return replay.Summary{}, err
	}

	select {
	case launcher.buildThrottle <- struct{}{}:
	case <-ctx.Done():
		return replay.Summary{}, ctx.Err()
	}
	defer func() { <-launcher.buildThrottle }()

	if launcher.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, launcher.buildTimeout)
		defer cancel()
	}

	nBuild := launcher.nBuildsStarted.Add(1)
	logServer.Info(1, "launch build #", nBuild, "tool", descriptor.Tool, descriptor.ProjectFilePath)

	start := time.Now()
	result, err := launcher.builder.Build(ctx, descriptor)
	if err != nil {
		launcher.nBuildsFailed.Add(1)
		logServer.Error("build #", nBuild, "failed", descriptor.ProjectFilePath, "\nerror:", err)
		return replay.Summary{}, err
	}

	if elapsed := time.Since(start); elapsed > 30*time.Second {
		logServer.Info(0, "replayed very heavy project", descriptor.ProjectFilePath, "in", elapsed.Round(time.Millisecond))
	}
	return replay.Summarize(result), nil
}

// ActiveBuildsCount is the number of builds holding a queue slot right now.
func (launcher *BuildLauncher) ActiveBuildsCount() int {
	return len(launcher.buildThrottle)
}

func (launcher *BuildLauncher) StartedBuildsCount() int64 {
	return launcher.nBuildsStarted.Load()
}

func (launcher *BuildLauncher) FailedBuildsCount() int64 {
	return launcher.nBuildsFailed.Load()
}
