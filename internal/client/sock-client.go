package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// SockResponse is what replay-server answers over its unix socket, see server.SockListener.
type SockResponse struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// SendToUnixSocket writes "{serializedText}\0" and reads "{ExitCode}\b{Stdout}\b{Stderr}\0" back.
func SendToUnixSocket(ctx context.Context, sockPath string, serializedText string, connectionTimeout time.Duration) (*SockResponse, error) {
	dialer := net.Dialer{Timeout: connectionTimeout}
	conn, err := dialer.DialContext(ctx, "unix", sockPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(fmt.Appendf(nil, "%s\000", serializedText)); err != nil {
		return nil, err
	}

	slice, err := bufio.NewReaderSize(conn, 128*1024).ReadBytes(0)
	if err != nil {
		return nil, fmt.Errorf("couldn't read from socket: %w", err)
	}

	responseParts := strings.SplitN(string(slice[0:len(slice)-1]), "\b", 3) // -1 to strip off the trailing '\0'
	if len(responseParts) != 3 {
		return nil, fmt.Errorf("received %d parts in response, expected 3", len(responseParts))
	}

	exitCode, err := strconv.Atoi(responseParts[0])
	if err != nil {
		return nil, fmt.Errorf("bad exit code in response: %w", err)
	}

	return &SockResponse{
		ExitCode: exitCode,
		Stdout:   []byte(responseParts[1]),
		Stderr:   []byte(responseParts[2]),
	}, nil
}
