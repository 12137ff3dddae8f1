package tlsscan_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/xlucas/ssl-inspector/scanlog"
	"github.com/xlucas/ssl-inspector/tlsscan"
	"github.com/xlucas/ssl-inspector/tlsscan/tlsscanfakes"
)

type collectingReporter struct {
	mu      sync.Mutex
	results []tlsscan.Result
}

func (r *collectingReporter) Report(result tlsscan.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *collectingReporter) Results() []tlsscan.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tlsscan.Result(nil), r.results...)
}

func enabledNames(results []tlsscan.Result) []string {
	var enabled []string
	for _, result := range results {
		if result.Status == tlsscan.Enabled {
			enabled = append(enabled, result.Suite.Name)
		}
	}
	return enabled
}

var _ = Describe("TLS Scan", func() {
	var (
		registry *tlsscan.Registry
		tls12    tlsscan.ProtocolVersion
		rsaAES   tlsscan.CipherSuite
		scanner  *tlsscan.Scanner
		server   *mockServer
	)

	BeforeEach(func() {
		var err error
		registry, err = tlsscan.LoadRegistry()
		Expect(err).NotTo(HaveOccurred())

		tls12, err = tlsscan.LookupProtocolVersion("TLSv1.2")
		Expect(err).NotTo(HaveOccurred())

		rsaAES = tlsscan.CipherSuite{ID: 0x002F, Name: "TLS_RSA_WITH_AES_128_CBC_SHA"}

		scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), tlsscan.NewDialer(time.Second), time.Second)
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Describe("probing a single suite", func() {
		It("is enabled when the server answers with a handshake in the requested version", func() {
			server = startMockServer(always(serverHello(tlsscan.VersionTLS12)))

			result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Enabled))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Suite).To(Equal(rsaAES))
		})

		It("sends exactly the built client hello", func() {
			server = startMockServer(always(serverHello(tlsscan.VersionTLS12)))

			scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Eventually(server.Hellos).Should(Equal([][]byte{tlsscan.BuildClientHello(tls12, 0x002F)}))
		})

		It("is disabled when the server answers in another version", func() {
			server = startMockServer(always(serverHello(tlsscan.VersionTLS10)))

			result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Disabled))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("is disabled when the server answers with an alert", func() {
			server = startMockServer(always(handshakeFailure(tlsscan.VersionTLS12)))

			result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Disabled))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("is disabled when the server hangs up without answering", func() {
			server = startMockServer(always(nil))

			result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Disabled))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("is disabled when the server hangs up after the record type", func() {
			server = startMockServer(always([]byte{0x16}))

			result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Disabled))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("is disabled with an error when the connection is refused", func() {
			listener, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			address := listener.Addr().String()
			Expect(listener.Close()).To(Succeed())

			result := scanner.Probe(context.Background(), address, tls12, rsaAES)

			Expect(result.Status).To(Equal(tlsscan.Disabled))
			Expect(result.Err).To(MatchError(ContainSubstring("failed to connect")))
		})

		Context("when the server never answers", func() {
			var release chan struct{}

			BeforeEach(func() {
				release = make(chan struct{})
				server = startMockServer(func([]byte) []byte {
					<-release
					return nil
				})
			})

			AfterEach(func() {
				close(release)
			})

			It("gives up after the read timeout", func() {
				scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), tlsscan.NewDialer(time.Second), 100*time.Millisecond)

				result := scanner.Probe(context.Background(), server.Address(), tls12, rsaAES)

				Expect(result.Status).To(Equal(tlsscan.Disabled))
				Expect(result.Err).To(MatchError(ContainSubstring("failed to read record type")))

				var netErr net.Error
				Expect(errors.As(result.Err, &netErr)).To(BeTrue())
				Expect(netErr.Timeout()).To(BeTrue())
			})

			It("stops scanning when cancelled", func() {
				scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), tlsscan.NewDialer(time.Second), 0)
				reporter := &collectingReporter{}

				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(100*time.Millisecond, cancel)

				host, port := server.HostPort()
				done := make(chan error, 1)
				go func() {
					done <- scanner.Scan(ctx, host, port, tls12, registry.All(), reporter)
				}()

				var err error
				Eventually(done, 5*time.Second).Should(Receive(&err))
				Expect(err).To(MatchError(context.Canceled))
				Expect(reporter.Results()).To(BeEmpty())
				Eventually(server.Hellos).Should(HaveLen(1))
			})
		})

		Context("with a fake dialer", func() {
			var dialer *tlsscanfakes.FakeDialer

			BeforeEach(func() {
				dialer = &tlsscanfakes.FakeDialer{}
				scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), dialer, time.Second)
			})

			It("reports dial errors alongside the classification", func() {
				dialer.DialContextReturns(nil, errors.New("no route to host"))

				result := scanner.Probe(context.Background(), "192.0.2.1:443", tls12, rsaAES)

				Expect(result.Status).To(Equal(tlsscan.Disabled))
				Expect(result.Err).To(MatchError(ContainSubstring("no route to host")))

				_, network, address := dialer.DialContextArgsForCall(0)
				Expect(network).To(Equal("tcp"))
				Expect(address).To(Equal("192.0.2.1:443"))
			})

			It("closes the connection once classified", func() {
				client, remote := net.Pipe()
				dialer.DialContextReturns(client, nil)

				go func() {
					hello := make([]byte, tlsscan.ClientHelloLen)
					io.ReadFull(remote, hello)
					remote.Write(serverHello(tlsscan.VersionTLS12))
				}()

				result := scanner.Probe(context.Background(), "192.0.2.1:443", tls12, rsaAES)
				Expect(result.Status).To(Equal(tlsscan.Enabled))

				_, err := remote.Read(make([]byte, 1))
				Expect(err).To(Equal(io.EOF))
			})
		})
	})

	Describe("scanning a server", func() {
		It("reports only the accepted suite as enabled, in registry order", func() {
			server = startMockServer(acceptOnly(tlsscan.VersionTLS12, 0x002F))
			host, port := server.HostPort()
			reporter := &collectingReporter{}

			err := scanner.Scan(context.Background(), host, port, tls12, registry.All(), reporter)
			Expect(err).NotTo(HaveOccurred())

			results := reporter.Results()
			Expect(results).To(HaveLen(registry.Len()))
			for i, suite := range registry.All() {
				Expect(results[i].Suite).To(Equal(suite))
				Expect(results[i].Err).NotTo(HaveOccurred())
			}
			Expect(enabledNames(results)).To(Equal([]string{"TLS_RSA_WITH_AES_128_CBC_SHA"}))
			Expect(server.Hellos()).To(HaveLen(registry.Len()))
		})

		It("does not find the suite under another protocol version", func() {
			server = startMockServer(acceptOnly(tlsscan.VersionTLS12, 0x002F))
			host, port := server.HostPort()
			reporter := &collectingReporter{}

			tls10, err := tlsscan.LookupProtocolVersion("TLSv1.0")
			Expect(err).NotTo(HaveOccurred())

			err = scanner.Scan(context.Background(), host, port, tls10, []tlsscan.CipherSuite{rsaAES}, reporter)
			Expect(err).NotTo(HaveOccurred())
			Expect(enabledNames(reporter.Results())).To(BeEmpty())
		})

		It("opens a fresh connection for every suite", func() {
			dialer := &tlsscanfakes.FakeDialer{}
			dialer.DialContextCalls(func(context.Context, string, string) (net.Conn, error) {
				client, remote := net.Pipe()
				go func() {
					defer remote.Close()
					hello := make([]byte, tlsscan.ClientHelloLen)
					if _, err := io.ReadFull(remote, hello); err == nil {
						remote.Write(handshakeFailure(tlsscan.VersionTLS12))
					}
				}()
				return client, nil
			})
			scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), dialer, time.Second)
			suites := registry.All()[:3]

			err := scanner.Scan(context.Background(), "example.com", "8443", tls12, suites, &collectingReporter{})
			Expect(err).NotTo(HaveOccurred())

			Expect(dialer.DialContextCallCount()).To(Equal(3))
			for i := 0; i < 3; i++ {
				_, _, address := dialer.DialContextArgsForCall(i)
				Expect(address).To(Equal("example.com:8443"))
			}
		})

		It("keeps going after a failed connection", func() {
			server = startMockServer(always(serverHello(tlsscan.VersionTLS12)))
			dialer := &tlsscanfakes.FakeDialer{}
			dialer.DialContextCalls(func(ctx context.Context, network, address string) (net.Conn, error) {
				if dialer.DialContextCallCount() == 1 {
					return nil, errors.New("connection refused")
				}
				return net.Dial(network, server.Address())
			})
			scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), dialer, time.Second)
			reporter := &collectingReporter{}

			err := scanner.Scan(context.Background(), "127.0.0.1", "443", tls12, registry.All()[:2], reporter)
			Expect(err).NotTo(HaveOccurred())

			results := reporter.Results()
			Expect(results).To(HaveLen(2))
			Expect(results[0].Status).To(Equal(tlsscan.Disabled))
			Expect(results[0].Err).To(HaveOccurred())
			Expect(results[1].Status).To(Equal(tlsscan.Enabled))
		})

		It("stops when the reporter fails", func() {
			server = startMockServer(always(nil))
			host, port := server.HostPort()
			calls := 0

			err := scanner.Scan(context.Background(), host, port, tls12, registry.All(), tlsscan.ReporterFunc(func(tlsscan.Result) error {
				calls++
				return errors.New("stdout closed")
			}))

			Expect(err).To(MatchError(ContainSubstring("stdout closed")))
			Expect(calls).To(Equal(1))
		})

		It("does nothing when already cancelled", func() {
			dialer := &tlsscanfakes.FakeDialer{}
			scanner = tlsscan.NewScanner(scanlog.NewNopLogger(), dialer, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := scanner.Scan(ctx, "127.0.0.1", "443", tls12, registry.All(), &collectingReporter{})
			Expect(err).To(MatchError(context.Canceled))
			Expect(dialer.DialContextCallCount()).To(BeZero())
		})
	})
})
