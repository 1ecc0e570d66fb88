package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"compreplay/internal/replay"
	"compreplay/pb"
)

// RemoteConnection sends serialized invocations to a replay-server and gets summaries back.
// If SockPath is configured, the server is local and is reached over its unix socket;
// otherwise over grpc (optionally via a SOCKS5 proxy).
type RemoteConnection struct {
	remoteHostPort string
	remoteHost     string // for console output and logs, just IP is more pretty
	sockPath       string
	socksProxyAddr string

	connectionTimeout time.Duration
	invocationTimeout time.Duration

	grpcClient *GRPCClient
}

func ExtractRemoteHostWithoutPort(remoteHostPort string) (remoteHost string) {
	remoteHost = remoteHostPort
	if idx := strings.LastIndex(remoteHostPort, ":"); idx != -1 {
		remoteHost = remoteHostPort[:idx]
	}
	return
}

func MakeRemoteConnection(configuration *Configuration) *RemoteConnection {
	return &RemoteConnection{
		remoteHostPort:    configuration.Server,
		remoteHost:        ExtractRemoteHostWithoutPort(configuration.Server),
		sockPath:          configuration.SockPath,
		socksProxyAddr:    configuration.SocksProxyAddr,
		connectionTimeout: time.Duration(configuration.ConnectionTimeout) * time.Second,
		invocationTimeout: time.Duration(configuration.InvocationTimeout) * time.Second,
	}
}

func (remote *RemoteConnection) SetupConnection() error {
	if remote.sockPath != "" {
		return nil
	}

	grpcClient, err := MakeGRPCClient(remote.remoteHostPort, remote.socksProxyAddr, remote.connectionTimeout)
	if err != nil {
		return err
	}
	remote.grpcClient = grpcClient
	return nil
}

// CreateFromSerializedInvocation replays an invocation on the remote.
// Over grpc, a failure is a status error carrying the server's code; over a unix socket, it's the server's message.
func (remote *RemoteConnection) CreateFromSerializedInvocation(ctx context.Context, serializedText string) (replay.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, remote.invocationTimeout)
	defer cancel()

	if remote.sockPath != "" {
		return remote.sendToSock(ctx, serializedText)
	}
	if remote.grpcClient == nil {
		return replay.Summary{}, fmt.Errorf("remote %s is not connected", remote.remoteHost)
	}

	logClient.Info(1, "send invocation to", remote.remoteHostPort)
	out, err := remote.grpcClient.pb.CreateFromSerializedInvocation(ctx, wrapperspb.String(serializedText))
	if err != nil {
		logClient.Error("remote", remote.remoteHost, "failed:", err)
		return replay.Summary{}, err
	}
	return pb.SummaryFromStruct(out), nil
}

func (remote *RemoteConnection) sendToSock(ctx context.Context, serializedText string) (replay.Summary, error) {
	logClient.Info(1, "send invocation to", remote.sockPath)
	response, err := SendToUnixSocket(ctx, remote.sockPath, serializedText, remote.connectionTimeout)
	if err != nil {
		return replay.Summary{}, err
	}
	if response.ExitCode != 0 {
		return replay.Summary{}, fmt.Errorf("replay-server exited with code %d: %s", response.ExitCode, response.Stderr)
	}

	var summary replay.Summary
	if err := json.Unmarshal(response.Stdout, &summary); err != nil {
		return replay.Summary{}, fmt.Errorf("can't decode summary: %w", err)
	}
	return summary, nil
}

func (remote *RemoteConnection) Clear() {
	if remote.grpcClient != nil {
		remote.grpcClient.Clear()
		remote.grpcClient = nil
	}
}
