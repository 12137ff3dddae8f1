package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/xlucas/ssl-inspector/scanlog"
	"github.com/xlucas/ssl-inspector/tlsscan"
)

type InspectCommand struct {
	Authentication []string `short:"a" long:"authentication" description:"Specify an authentication algorithm" value-name:"ALGORITHM"`
	Bits           []string `short:"b" long:"bits" description:"Specify an encryption key size" value-name:"[<|<=|>=|>]SIZE"`
	Encryption     []string `short:"e" long:"encryption" description:"Specify an encryption algorithm" value-name:"ALGORITHM"`
	Host           string   `short:"h" long:"host" description:"Specify target host" value-name:"HOST"`
	KeyExchange    []string `short:"k" long:"keyexchange" description:"Specify a keyexchange algorithm" value-name:"ALGORITHM"`
	MAC            []string `short:"m" long:"mac" description:"Specify a MAC algorithm" value-name:"ALGORITHM"`
	Name           []string `short:"n" long:"name" description:"Specify a cipher suite partial or full name" value-name:"NAME"`
	Port           uint16   `short:"p" long:"port" description:"Specify target port" value-name:"PORT" default:"443"`
	Specification  string   `short:"s" long:"specification" description:"Specification SSLv3 or TLSv1.{0,1,2}" value-name:"PROTOCOL"`
	Verbose        bool     `short:"v" long:"verbose" description:"Run in verbose mode"`

	ConnectTimeout time.Duration `long:"connect-timeout" description:"Give up connecting after this long (0 waits forever)" value-name:"DURATION" default:"5s"`
	ReadTimeout    time.Duration `long:"read-timeout" description:"Give up waiting for the server's answer after this long (0 waits forever)" value-name:"DURATION" default:"5s"`
	List           bool          `long:"list" description:"List the cipher suites selected by the filters and exit"`
	Debug          bool          `long:"debug" description:"Log every probe on stderr"`
	Help           bool          `long:"help" description:"Show this message"`
}

func (command *InspectCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return command.Run(ctx, os.Stdout)
}

// Run validates the whole command line before touching the network, then
// writes one line per reported suite to stdout.
func (command *InspectCommand) Run(ctx context.Context, stdout io.Writer) error {
	version, pipeline, err := command.parse()
	if err != nil {
		return err
	}

	logger, err := scanlog.NewLogger(command.Debug)
	if err != nil {
		return errors.Wrap(err, "failed to set up logger")
	}

	registry, err := tlsscan.LoadRegistry()
	if err != nil {
		return err
	}

	suites := pipeline.Apply(registry.All())
	logger.Debugf("Selected %d of %d cipher suites with %d filters", len(suites), registry.Len(), len(pipeline))
	for _, filter := range pipeline {
		logger.Debugf("Filter: %s", filter)
	}

	if command.List {
		return showSuites(stdout, suites)
	}

	scanner := tlsscan.NewScanner(logger, tlsscan.NewDialer(command.ConnectTimeout), command.ReadTimeout)
	port := strconv.Itoa(int(command.Port))

	return scanner.Scan(ctx, command.Host, port, version, suites, newLineReporter(stdout, command.Verbose))
}

func (command *InspectCommand) parse() (tlsscan.ProtocolVersion, tlsscan.Pipeline, error) {
	var (
		result   *multierror.Error
		version  tlsscan.ProtocolVersion
		pipeline tlsscan.Pipeline
	)

	if !command.List {
		if command.Host == "" {
			result = multierror.Append(result, errors.New("you must specify a target host"))
		}

		if command.Specification == "" {
			result = multierror.Append(result, errors.New("you must specify a protocol version"))
		}

		if command.Port == 0 {
			result = multierror.Append(result, errors.New("the target port must be between 1 and 65535"))
		}
	}

	if command.Specification != "" {
		v, err := tlsscan.LookupProtocolVersion(command.Specification)
		if err != nil {
			result = multierror.Append(result, err)
		}
		version = v
	}

	for _, a := range command.Authentication {
		pipeline = append(pipeline, tlsscan.AuthenticationFilter(a))
	}

	for _, b := range command.Bits {
		filter, err := tlsscan.BitsFilter(b)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		pipeline = append(pipeline, filter)
	}

	for _, e := range command.Encryption {
		pipeline = append(pipeline, tlsscan.EncryptionFilter(e))
	}

	for _, k := range command.KeyExchange {
		pipeline = append(pipeline, tlsscan.KeyExchangeFilter(k))
	}

	for _, m := range command.MAC {
		pipeline = append(pipeline, tlsscan.MACFilter(m))
	}

	for _, n := range command.Name {
		filter, err := tlsscan.NameFilter(n)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		pipeline = append(pipeline, filter)
	}

	return version, pipeline, result.ErrorOrNil()
}
