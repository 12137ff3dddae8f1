package tlsscan

import (
	"context"
	"net"
	"time"
)

//go:generate counterfeiter . Dialer

type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer returns a TCP dialer that gives up connecting after timeout. A
// zero timeout leaves only the operating system's own limit.
func NewDialer(timeout time.Duration) Dialer {
	return &net.Dialer{Timeout: timeout}
}
