package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"compreplay/internal/common"
	"compreplay/internal/replay"
	"compreplay/pb"
)

// makeRecordedProject creates a tree with one source file and returns it with a descriptor recorded under /rec.
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

func startTestServer(t *testing.T, launcher *BuildLauncher) pb.ReplayServiceClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := MakeReplayServer(launcher)
	go func() {
		_ = s.GRPCServer.Serve(lis)
	}()
	t.Cleanup(s.QuitServerGracefully)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewReplayServiceClient(conn)
}

func TestCreateFromSerializedInvocation(t *testing.T) {
	t.Parallel()
	root, text := makeRecordedProject(t)
	launcher, err := MakeBuildLauncher(2, time.Minute)
	require.NoError(t, err)
	client := startTestServer(t, launcher)

	out, err := client.CreateFromSerializedInvocation(context.Background(), wrapperspb.String(text))
	require.NoError(t, err)

	assert.Equal(t, replay.Summary{
		ProjectName:         "App",
		ProjectFilePath:     "/rec/App/App.csproj",
		AssemblyName:        "a",
		Language:            "C#",
		OutputFilePath:      "/rec/App/a.exe",
		Documents:           []string{root + "/App/a.cs"},
		AdditionalDocuments: []string{},
		AnalyzerConfigs:     []string{},
		References:          []string{},
	}, pb.SummaryFromStruct(out))
	assert.EqualValues(t, 1, launcher.StartedBuildsCount())
	assert.Equal(t, 0, launcher.ActiveBuildsCount())
}

func TestCreateFromSerializedInvocationErrors(t *testing.T) {
	t.Parallel()
	launcher, err := MakeBuildLauncher(1, 0)
	require.NoError(t, err)
	client := startTestServer(t, launcher)

	missingSource := t.TempDir()
	tests := []struct {
		name     string
		text     string
		wantCode codes.Code
	}{
		{"malformed", `{"Tool": "csc"`, codes.InvalidArgument},
		{"unsupported tool", `{"Tool": "fsc", "Arguments": "a.fs", "ProjectFilePath": "/a.fsproj"}`, codes.InvalidArgument},
		{"bad switch", `{"Tool": "csc", "Arguments": "/nosuchswitch a.cs", "ProjectFilePath": "/a.csproj"}`, codes.InvalidArgument},
		{"missing source", `{"Tool": "csc", "Arguments": "a.cs", "ProjectFilePath": "` + missingSource + `/a.csproj"}`, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateFromSerializedInvocation(context.Background(), wrapperspb.String(tt.text))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
	assert.EqualValues(t, 3, launcher.FailedBuildsCount())
}

func TestStatusFromError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, codes.Canceled, status.Code(statusFromError(context.Canceled)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(statusFromError(context.DeadlineExceeded)))
	assert.Equal(t, codes.InvalidArgument, status.Code(statusFromError(&replay.UnsupportedToolError{Tool: "x"})))
	assert.Equal(t, codes.Internal, status.Code(statusFromError(os.ErrPermission)))
}
