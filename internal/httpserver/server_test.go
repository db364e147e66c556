package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/channel-proxy/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Context("server creation", func() {
		DescribeTable("accepted addresses",
			func(addr string) {
				srv, err := httpserver.New(addr, noop)
				Expect(err).NotTo(HaveOccurred())
				Expect(srv.Addr()).To(Equal(addr))
			},
			Entry("host name", "localhost:9999"),
			Entry("IP address", "127.0.0.1:9999"),
			Entry("port only", ":9999"),
		)

		DescribeTable("rejected addresses",
			func(addr string) {
				srv, err := httpserver.New(addr, noop)
				Expect(err).To(HaveOccurred())
				Expect(srv).To(BeNil())
			},
			Entry("too many colons", "invalid:host:port"),
			Entry("missing port", "localhost"),
			Entry("empty port", "localhost:"),
		)
	})

	Context("server lifecycle", func() {
		var testServer *httpserver.Server

		AfterEach(func() {
			if testServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
				defer cancel()
				_ = testServer.Shutdown(ctx)
			}
		})

		It("starts and handles requests", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})
			var err error
			testServer, err = httpserver.New("127.0.0.1:19999", handler)
			Expect(err).NotTo(HaveOccurred())

			go func() {
				defer GinkgoRecover()
				Expect(testServer.Start()).To(Succeed())
			}()

			var resp *http.Response
			Eventually(func() error {
				resp, err = http.Get("http://127.0.0.1:19999")
				return err
			}).Should(Succeed())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("shuts down gracefully", func() {
			var err error
			testServer, err = httpserver.New("127.0.0.1:19998", noop, httpserver.WithShutdownTimeout(2*time.Second))
			Expect(err).NotTo(HaveOccurred())

			started := make(chan error, 1)
			go func() {
				started <- testServer.Start()
			}()

			Eventually(func() error {
				resp, err := http.Get("http://127.0.0.1:19998")
				if err == nil {
					resp.Body.Close()
				}
				return err
			}).Should(Succeed())

			Expect(testServer.Shutdown(context.Background())).To(Succeed())
			Eventually(started).Should(Receive(BeNil()))
		})
	})
})
