package server

import (
	"context"
	"errors"
	"net"
	"runtime"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"compreplay/internal/cmdline"
	"compreplay/internal/common"
	"compreplay/internal/replay"
	"compreplay/internal/workspace"
	"compreplay/pb"
)

// ReplayServer stores all server's state and serves requests coming over grpc and over a unix socket.
// Both transports end up in BuildLauncher, so they share its queue.
type ReplayServer struct {
	GRPCServer    *grpc.Server
	SockListener  *SockListener
	BuildLauncher *BuildLauncher
}

func MakeReplayServer(buildLauncher *BuildLauncher, opts ...grpc.ServerOption) *ReplayServer {
	s := &ReplayServer{
		GRPCServer:    grpc.NewServer(opts...),
		SockListener:  MakeSockListener(buildLauncher),
		BuildLauncher: buildLauncher,
	}
	pb.RegisterReplayServiceServer(s.GRPCServer, s)
	return s
}

// StartGRPCListening is an entrypoint called from main() of replay-server.
// It either returns an error or starts processing grpc requests and returns after QuitServerGracefully.
func (s *ReplayServer) StartGRPCListening(listenAddr string) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	var rLimit unix.Rlimit
	_ = unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit)
	logServer.Info(0, "replay-server started")
	logServer.Info(0, "env:", "listenAddr", listener.Addr(), "; ulimit -n", rLimit.Cur, "; num cpu", runtime.NumCPU(), "; version", common.GetVersion())

	return s.GRPCServer.Serve(listener)
}

// QuitServerGracefully stops accepting new connections and waits for running builds.
// After it, StartGRPCListening and SockListener.StartAcceptingConnections return, and main() continues.
func (s *ReplayServer) QuitServerGracefully() {
	logServer.Info(0, "graceful stop...", "; builds started", s.BuildLauncher.StartedBuildsCount(), "; failed", s.BuildLauncher.FailedBuildsCount())

	s.SockListener.Stop()
	s.GRPCServer.GracefulStop()
}

// CreateFromSerializedInvocation is a grpc handler.
// A client sends a serialized invocation descriptor, the server replays it against its own file tree
// (paths are remapped by the descriptor's rules, then by the server's fallback rules)
// and responds with a summary of the compiled unit.
func (s *ReplayServer) CreateFromSerializedInvocation(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	summary, err := s.BuildLauncher.LaunchBuildWhenPossible(ctx, in.GetValue())
	if err != nil {
		return nil, statusFromError(err)
	}

	out, err := pb.SummaryToStruct(summary)
	if err != nil {
		logServer.Error("can't encode summary", summary.ProjectFilePath, err)
		return nil, status.Errorf(codes.Internal, "can't encode summary: %v", err)
	}
	return out, nil
}

// statusFromError maps replay errors to grpc codes, so that a client can tell a bad request from a server problem.
func statusFromError(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, replay.ErrDeserialization), errors.Is(err, replay.ErrUnsupportedTool), errors.Is(err, cmdline.ErrParse):
		code = codes.InvalidArgument
	case errors.Is(err, workspace.ErrCompilation):
		code = codes.FailedPrecondition
	}
	return status.Error(code, err.Error())
}
