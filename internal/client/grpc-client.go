package client

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"

	"compreplay/pb"
)

type GRPCClient struct {
	remoteHostPort string
	connection     *grpc.ClientConn
	pb             pb.ReplayServiceClient
}

func MakeGRPCClient(remoteHostPort string, socksProxyAddr string, connectionTimeout time.Duration) (*GRPCClient, error) {
	// this connection is non-blocking: it's created immediately
	// if the remote is not available, it will fail on request

	dialOpts, err := createDialOpts(socksProxyAddr, connectionTimeout)
	if err != nil {
		return nil, err
	}

	var remoteAddress string
	if socksProxyAddr != "" {
		// name resolution is up to the proxy
		remoteAddress = fmt.Sprintf("passthrough:///%s", remoteHostPort)
	} else {
		remoteAddress = fmt.Sprintf("dns:///%s", remoteHostPort)
	}

	connection, err := grpc.NewClient(remoteAddress, dialOpts...)
	if err != nil {
		return nil, err
	}

	return &GRPCClient{
		remoteHostPort: remoteHostPort,
		connection:     connection,
		pb:             pb.NewReplayServiceClient(connection),
	}, nil
}

func createDialOpts(socksProxyAddr string, connectionTimeout time.Duration) ([]grpc.DialOption, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           backoff.DefaultConfig,
			MinConnectTimeout: connectionTimeout,
		}),
	}

	if socksProxyAddr != "" {
		dialOpt, err := runInSocks5(socksProxyAddr)
		if err != nil {
			return nil, fmt.Errorf("can't use socks proxy %s: %w", socksProxyAddr, err)
		}
		dialOpts = append(dialOpts, dialOpt)
	}
	return dialOpts, nil
}

// runInSocks5 makes grpc dial through a SOCKS5 proxy.
// The proxy is reached over a unix socket if its address is a path, over tcp otherwise.
func runInSocks5(proxyAddr string) (grpc.DialOption, error) {
	network := "tcp"
	if strings.HasPrefix(proxyAddr, "/") {
		network = "unix"
	}
	dialer, err := proxy.SOCKS5(network, proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	customDialer := func(ctx context.Context, addr string) (net.Conn, error) {
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			return contextDialer.DialContext(ctx, "tcp", addr)
		}
		return dialer.Dial("tcp", addr)
	}

	return grpc.WithContextDialer(customDialer), nil
}

func (grpcClient *GRPCClient) Clear() {
	if grpcClient.connection != nil {
		_ = grpcClient.connection.Close()

		grpcClient.connection = nil
		grpcClient.pb = nil
	}
}
