package tlsscan

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/xlucas/ssl-inspector/scanlog"
)

type Status int

const (
	Disabled Status = iota
	Enabled
)

func (s Status) String() string {
	if s == Enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// Result is the outcome of offering one suite. Err is set when the suite was
// classified DISABLED because the round trip itself failed, rather than
// because the server answered.
type Result struct {
	Suite  CipherSuite
	Status Status
	Err    error
}

type Reporter interface {
	Report(result Result) error
}

type ReporterFunc func(result Result) error

func (f ReporterFunc) Report(result Result) error {
	return f(result)
}

type Scanner struct {
	logger      scanlog.Logger
	dialer      Dialer
	readTimeout time.Duration
}

// NewScanner returns a Scanner that dials through dialer and allows each
// probe readTimeout to send its hello and read the answer. A zero readTimeout
// waits for as long as the server keeps the connection open.
func NewScanner(logger scanlog.Logger, dialer Dialer, readTimeout time.Duration) *Scanner {
	return &Scanner{
		logger:      logger,
		dialer:      dialer,
		readTimeout: readTimeout,
	}
}

// Scan probes every suite in order, one connection at a time, and hands each
// result to the reporter as soon as it is known. It stops early when ctx is
// cancelled or the reporter fails. The probe interrupted by a cancellation is
// not reported.
func (s *Scanner) Scan(ctx context.Context, host, port string, version ProtocolVersion, suites []CipherSuite, reporter Reporter) error {
	address := net.JoinHostPort(host, port)
	logger := s.logger.With("address", address, "version", version.Name)

	logger.Infof("Starting cipher scan of %d suites", len(suites))

	for _, suite := range suites {
		if err := ctx.Err(); err != nil {
			logger.Infof("Cipher scan interrupted before %s", suite.Name)
			return err
		}

		result := s.Probe(ctx, address, version, suite)

		if err := ctx.Err(); err != nil {
			logger.Infof("Cipher scan interrupted during %s", suite.Name)
			return err
		}

		if result.Err != nil {
			logger.Warnf("Probe of %s failed: %s", suite.Name, result.Err)
		}

		if err := reporter.Report(result); err != nil {
			return errors.Wrapf(err, "failed to report %s", suite.Name)
		}
	}

	logger.Infof("Finished cipher scan")
	return nil
}

func (s *Scanner) Probe(ctx context.Context, address string, version ProtocolVersion, suite CipherSuite) Result {
	logger := s.logger.With("address", address, "version", version.Name, "suite", suite.Name)

	status, err := s.tryHandshakeWithCipher(ctx, logger, address, version, suite)

	logger.Debugf("Classified as %s", status)
	return Result{Suite: suite, Status: status, Err: err}
}

var aLongTimeAgo = time.Unix(1, 0)

func (s *Scanner) tryHandshakeWithCipher(ctx context.Context, logger scanlog.Logger, address string, version ProtocolVersion, suite CipherSuite) (Status, error) {
	logger.Debugf("Dialing")
	conn, err := s.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return Disabled, errors.Wrapf(err, "failed to connect to %s", address)
	}
	defer conn.Close()

	if s.readTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.readTimeout)); err != nil {
			return Disabled, errors.Wrap(err, "failed to set deadline")
		}
	}

	// Cancelling ctx unblocks whatever read or write is in flight.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(aLongTimeAgo)
	})
	defer stop()

	if _, err := conn.Write(BuildClientHello(version, suite.ID)); err != nil {
		return Disabled, errors.Wrap(err, "failed to send client hello")
	}

	var contentType [1]byte
	if _, err := io.ReadFull(conn, contentType[:]); err != nil {
		return Disabled, readError(logger, err, "record type")
	}

	if contentType[0] != recordTypeHandshake {
		logger.Debugf("Server answered with record type %d", contentType[0])
		return Disabled, nil
	}

	var recordVersion [2]byte
	if _, err := io.ReadFull(conn, recordVersion[:]); err != nil {
		return Disabled, readError(logger, err, "record version")
	}

	if v := binary.BigEndian.Uint16(recordVersion[:]); v != version.ID {
		logger.Debugf("Server answered with version 0x%04X", v)
		return Disabled, nil
	}

	return Enabled, nil
}

// A server that hangs up instead of answering is refusing the suite; any
// other read failure is reported alongside the classification.
func readError(logger scanlog.Logger, err error, field string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		logger.Debugf("Connection closed before %s: %s", field, err)
		return nil
	}

	return errors.Wrapf(err, "failed to read %s", field)
}
