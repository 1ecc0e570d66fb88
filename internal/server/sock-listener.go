package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
)

// SockListener serves replay requests from local tools over a unix socket.
// Request/response transferred via this socket are represented as simple C-style strings with \0 delimiters,
// so that a shell script with `nc -U` or a tiny C wrapper is enough to talk to the server.
// Request message format:
// "{serialized descriptor}\0"
// Response message format:
// "{ExitCode}\b{Stdout}\b{Stderr}\0"
// On success, ExitCode is 0 and Stdout is a json summary; otherwise ExitCode is 1 and Stderr is an error message.
type SockListener struct {
	buildLauncher     *BuildLauncher
	activeConnections atomic.Int32

	mu          sync.Mutex
	netListener net.Listener
	quit        chan struct{}
	stopOnce    sync.Once
	connections sync.WaitGroup
}

type SockResponse struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func MakeSockListener(buildLauncher *BuildLauncher) *SockListener {
	return &SockListener{
		buildLauncher: buildLauncher,
		quit:          make(chan struct{}),
	}
}

func (listener *SockListener) StartListeningUnixSocket(sockPath string) error {
	_ = os.Remove(sockPath)
	netListener, err := net.Listen("unix", sockPath)
	if err != nil {
		return err
	}
	return listener.StartAcceptingConnections(netListener)
}

// StartAcceptingConnections blocks until Stop is called, then waits for requests in progress.
func (listener *SockListener) StartAcceptingConnections(netListener net.Listener) error {
	listener.mu.Lock()
	listener.netListener = netListener
	listener.mu.Unlock()

	select {
	case <-listener.quit: // stopped before started
		_ = netListener.Close()
		return nil
	default:
	}

	logServer.Info(0, "listening unix socket", netListener.Addr())
	defer listener.connections.Wait()
	for {
		conn, err := netListener.Accept()
		if err != nil {
			select {
			case <-listener.quit:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			logServer.Error("unix socket accept error:", err)
			continue
		}

		listener.connections.Add(1)
		go func() {
			defer listener.connections.Done()
			listener.onRequest(conn)
		}()
	}
}

// Stop makes StartAcceptingConnections return; Accept() returns an error immediately.
func (listener *SockListener) Stop() {
	listener.stopOnce.Do(func() {
		close(listener.quit)
		listener.mu.Lock()
		if listener.netListener != nil {
			_ = listener.netListener.Close()
		}
		listener.mu.Unlock()
	})
}

func (listener *SockListener) ActiveConnectionsCount() int {
	return int(listener.activeConnections.Load())
}

// onRequest reads a descriptor until \0, replays it and answers back.
// A request is cancelled when the server quits, a build in progress then ends with ctx error.
func (listener *SockListener) onRequest(conn net.Conn) {
	defer conn.Close()

	slice, err := bufio.NewReaderSize(conn, 64*1024).ReadBytes(0)
	if err != nil {
		logServer.Error("couldn't read from socket", err)
		listener.respondErr(conn, fmt.Errorf("couldn't read request: %w", err))
		return
	}
	serializedText := string(slice[0 : len(slice)-1]) // -1 to strip off the trailing '\0'

	listener.activeConnections.Add(1)
	defer listener.activeConnections.Add(-1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-listener.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := listener.buildLauncher.LaunchBuildWhenPossible(ctx, serializedText)
	if err != nil {
		listener.respondErr(conn, err)
		return
	}

	stdout, err := json.Marshal(summary)
	if err != nil {
		listener.respondErr(conn, err)
		return
	}
	listener.respondOk(conn, &SockResponse{ExitCode: 0, Stdout: stdout})
}

func (listener *SockListener) respondOk(conn net.Conn, resp *SockResponse) {
	_, _ = conn.Write(fmt.Appendf(nil, "%d\b%s\b%s\000", resp.ExitCode, resp.Stdout, resp.Stderr))
}

func (listener *SockListener) respondErr(conn net.Conn, err error) {
	listener.respondOk(conn, &SockResponse{ExitCode: 1, Stderr: []byte(err.Error())})
}
