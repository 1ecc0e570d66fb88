package client

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"compreplay/internal/common"
	"compreplay/internal/replay"
	"compreplay/internal/server"
)

func makeRecordedProject(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "App"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "App", "a.cs"), []byte("class A {}"), 0644))

	text, err := replay.InvocationDescriptor{
		Tool:            "csc",
		Arguments:       "a.cs",
		ProjectFilePath: "/rec/App/App.csproj",
		PathMappings:    []common.PathMapping{{From: "/rec", To: root}},
	}.Serialize()
	require.NoError(t, err)
	return root, text
}

func makeTestServer(t *testing.T) *server.ReplayServer {
	t.Helper()
	launcher, err := server.MakeBuildLauncher(2, time.Minute)
	require.NoError(t, err)
	s := server.MakeReplayServer(launcher)
	t.Cleanup(s.QuitServerGracefully)
	return s
}

func TestRemoteConnectionOverGRPC(t *testing.T) {
	t.Parallel()
	root, text := makeRecordedProject(t)
	s := makeTestServer(t)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = s.GRPCServer.Serve(lis)
	}()

	config := DefaultConfiguration()
	config.Server = lis.Addr().String()
	remote := MakeRemoteConnection(&config)
	require.NoError(t, remote.SetupConnection())
	defer remote.Clear()

	summary, err := remote.CreateFromSerializedInvocation(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "App", summary.ProjectName)
	assert.Equal(t, []string{root + "/App/a.cs"}, summary.Documents)

	_, err = remote.CreateFromSerializedInvocation(context.Background(), `{"Tool": "fsc", "Arguments": "", "ProjectFilePath": ""}`)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRemoteConnectionOverUnixSocket(t *testing.T) {
	t.Parallel()
	root, text := makeRecordedProject(t)
	s := makeTestServer(t)
	sockPath := filepath.Join(t.TempDir(), "replay.sock")
	lis, err := net.Listen("unix", sockPath)
	require.NoError(t, err)
	go func() {
		_ = s.SockListener.StartAcceptingConnections(lis)
	}()

	config := DefaultConfiguration()
	config.SockPath = sockPath
	remote := MakeRemoteConnection(&config)
	require.NoError(t, remote.SetupConnection())
	defer remote.Clear()

	summary, err := remote.CreateFromSerializedInvocation(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []string{root + "/App/a.cs"}, summary.Documents)
	assert.Equal(t, "/rec/App/a.exe", summary.OutputFilePath)

	_, err = remote.CreateFromSerializedInvocation(context.Background(), `{"Tool": "csc"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required field Arguments is missing")
}

func TestRemoteConnectionNotConnected(t *testing.T) {
	t.Parallel()
	config := DefaultConfiguration()
	remote := MakeRemoteConnection(&config)
	_, err := remote.CreateFromSerializedInvocation(context.Background(), "{}")
	assert.Error(t, err)

	_, err = SendToUnixSocket(context.Background(), filepath.Join(t.TempDir(), "none.sock"), "{}", time.Second)
	assert.Error(t, err)
}
