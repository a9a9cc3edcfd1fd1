// Package netx runs the HTTP front end over plain TCP, TLS, and optionally
// HTTP/3 on QUIC.
package netx

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/errgroup"
)

var ErrMissingTLS = errors.New("missing TLS configuration")

const shutdownTimeout = 10 * time.Second

// Options configures Serve.
type Options struct {
	Addr    string
	Handler http.Handler
	// TLS enables HTTPS on Addr when set.
	TLS *tls.Config
	// HTTP3 additionally serves Handler over QUIC on the same port. Requires TLS.
	HTTP3 bool
	// Challenge, if set, is served on ChallengeAddr (":80" when empty) to
	// answer ACME HTTP-01 requests.
	Challenge     http.Handler
	ChallengeAddr string
	// Listener overrides Addr for the TCP server.
	Listener net.Listener
	Logger   *log.Logger
}

// Serve runs until ctx is cancelled or a listener fails. On cancellation the
// servers are shut down gracefully and Serve returns nil.
func Serve(ctx context.Context, opts Options) error {
	if opts.HTTP3 && opts.TLS == nil {
		return ErrMissingTLS
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handler := opts.Handler
	var h3 *http3.Server
	if opts.HTTP3 {
		h3 = &http3.Server{
			Addr:      opts.Addr,
			Handler:   opts.Handler,
			TLSConfig: http3.ConfigureTLSConfig(opts.TLS.Clone()),
		}
		handler = AltSvc(h3, handler)
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		TLSConfig:         opts.TLS,
		ReadHeaderTimeout: 10 * time.Second,
	}
	servers := []*http.Server{srv}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ln := opts.Listener
		if ln == nil {
			var err error
			if ln, err = net.Listen("tcp", opts.Addr); err != nil {
				return err
			}
		}
		if opts.TLS != nil {
			logger.Printf("https listening on %s", ln.Addr())
			return ignoreClosed(srv.ServeTLS(ln, "", ""))
		}
		logger.Printf("http listening on %s", ln.Addr())
		return ignoreClosed(srv.Serve(ln))
	})

	if opts.Challenge != nil {
		ch := &http.Server{
			Addr:              ifEmpty(opts.ChallengeAddr, ":80"),
			Handler:           opts.Challenge,
			ReadHeaderTimeout: 10 * time.Second,
		}
		servers = append(servers, ch)
		g.Go(func() error {
			logger.Printf("acme challenge listening on %s", ch.Addr)
			return ignoreClosed(ch.ListenAndServe())
		})
	}

	if h3 != nil {
		g.Go(func() error {
			logger.Printf("http/3 listening on %s (udp)", h3.Addr)
			return ignoreClosed(h3.ListenAndServe())
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(sctx))
		}
		if h3 != nil {
			errs = append(errs, h3.Close())
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	if ctx.Err() != nil && err == nil {
		return nil
	}
	return err
}

// AltSvc advertises the HTTP/3 endpoint on every response.
func AltSvc(h3 *http3.Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h3.SetQUICHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
