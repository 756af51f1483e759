package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Listeners runs the plaintext and the TLS-terminated HTTP servers side by
// side over the same handler.
type Listeners struct {
	plain  *http.Server
	secure *http.Server

	plainLn  net.Listener
	secureLn net.Listener
}

// NewListeners prepares both servers. tlsConfig is shared, read-only, by
// every handshake on the secure listener.
func NewListeners(c config.ListenerConfig, handler http.Handler, tlsConfig *tls.Config) *Listeners {
	return &Listeners{
		plain: &http.Server{
			Addr:              fmt.Sprintf(":%d", c.GetHTTPPort()),
			Handler:           handler,
			IdleTimeout:       c.GetHTTPIdleTimeout(),
			ReadHeaderTimeout: c.GetHTTPIdleTimeout(),
			ErrorLog:          stdlog.New(log.With().Str("listener", "http").Logger(), "", 0),
		},
		secure: &http.Server{
			Addr:              fmt.Sprintf(":%d", c.GetHTTPSPort()),
			Handler:           handler,
			IdleTimeout:       c.GetHTTPSIdleTimeout(),
			ReadHeaderTimeout: c.GetHTTPSIdleTimeout(),
			TLSConfig:         tlsConfig,
			// A non-nil empty map keeps the listener on HTTP/1.1.
			TLSNextProto: map[string]func(*http.Server, *tls.Conn, http.Handler){},
			ErrorLog:     stdlog.New(log.With().Str("listener", "https").Logger(), "", 0),
		},
	}
}

// Listen binds both ports. Binding errors are reported before any request is
// served, so a port clash fails startup instead of leaving one listener up.
func (l *Listeners) Listen() error {
	plainLn, err := net.Listen("tcp", l.plain.Addr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", l.plain.Addr, err)
	}
	secureLn, err := net.Listen("tcp", l.secure.Addr)
	if err != nil {
		_ = plainLn.Close()
		return fmt.Errorf("listen https %s: %w", l.secure.Addr, err)
	}
	l.plainLn, l.secureLn = plainLn, secureLn
	return nil
}

// HTTPAddr is the bound plaintext address. Only valid after Listen.
func (l *Listeners) HTTPAddr() net.Addr { return l.plainLn.Addr() }

// HTTPSAddr is the bound TLS address. Only valid after Listen.
func (l *Listeners) HTTPSAddr() net.Addr { return l.secureLn.Addr() }

// Serve blocks until ctx is cancelled or either server fails, then shuts
// both down. A clean shutdown returns nil.
func (l *Listeners) Serve(ctx context.Context) error {
	if l.plainLn == nil || l.secureLn == nil {
		if err := l.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", l.plainLn.Addr().String()).Dur("idle_timeout", l.plain.IdleTimeout).Msg("HTTP listener started")
		return ignoreClosed(l.plain.Serve(l.plainLn))
	})
	g.Go(func() error {
		log.Info().Str("addr", l.secureLn.Addr().String()).Dur("idle_timeout", l.secure.IdleTimeout).Msg("HTTPS listener started")
		return ignoreClosed(l.secure.ServeTLS(l.secureLn, "", ""))
	})
	g.Go(func() error {
		<-gctx.Done()
		return l.shutdown()
	})
	return g.Wait()
}

func (l *Listeners) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(
		wrapShutdown("http", l.plain.Shutdown(ctx)),
		wrapShutdown("https", l.secure.Shutdown(ctx)),
	)
}

func wrapShutdown(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s server.Shutdown: %w", name, err)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
