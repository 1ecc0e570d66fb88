package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compreplay/internal/common"
	"compreplay/internal/replay"
)

func TestMakeBuildLauncher(t *testing.T) {
	t.Parallel()
	_, err := MakeBuildLauncher(0, time.Second)
	assert.Error(t, err)
	_, err = MakeBuildLauncher(1, -time.Second)
	assert.Error(t, err)
}

func TestLaunchBuildWhenPossible(t *testing.T) {
	t.Parallel()
	root, text := makeRecordedProject(t)
	launcher, err := MakeBuildLauncher(1, time.Minute)
	require.NoError(t, err)

	summary, err := launcher.LaunchBuildWhenPossible(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/App/a.cs"}, summary.Documents)

	_, err = launcher.LaunchBuildWhenPossible(context.Background(), "{")
	assert.ErrorIs(t, err, replay.ErrDeserialization)
	assert.EqualValues(t, 1, launcher.StartedBuildsCount(), "malformed descriptors are not queued")
}

func TestLaunchBuildWaitsForQueue(t *testing.T) {
	t.Parallel()
	_, text := makeRecordedProject(t)
	launcher, err := MakeBuildLauncher(1, 0)
	require.NoError(t, err)

	launcher.buildThrottle <- struct{}{} // the only slot is busy
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = launcher.LaunchBuildWhenPossible(ctx, text)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 0, launcher.StartedBuildsCount())

	<-launcher.buildThrottle
	_, err = launcher.LaunchBuildWhenPossible(context.Background(), text)
	assert.NoError(t, err)
}

func TestLaunchBuildUsesFallbackMappings(t *testing.T) {
	t.Parallel()
	root, _ := makeRecordedProject(t)
	text, err := replay.InvocationDescriptor{
		Tool:            "csc",
		Arguments:       "a.cs",
		ProjectFilePath: "/rec/App/App.csproj",
	}.Serialize()
	require.NoError(t, err)

	launcher, err := MakeBuildLauncher(1, 0, replay.WithFallbackMappings([]common.PathMapping{{From: "/rec", To: root}}))
	require.NoError(t, err)

	summary, err := launcher.LaunchBuildWhenPossible(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/App/a.cs"}, summary.Documents)
}
