package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/jrsteele09/go-mock-auth-server/internal/logging"
	"github.com/jrsteele09/go-mock-auth-server/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("Error running server")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func newRootCommand() *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "mock-auth-server [httpPort httpsPort]",
		Short: "Mock HTTP/HTTPS server with a canned token endpoint for client tests",
		Args:  cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyPortArgs(v, args); err != nil {
				return err
			}
			return run(cmd.Context(), v, configFile, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a YAML/JSON/TOML config file")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("keystore", config.DefaultKeystorePath, "PKCS#12 key store or PEM bundle for the TLS identity")
	flags.String("static-root", config.DefaultStaticRoot, "directory served on /")
	flags.Bool("self-signed", false, "serve a generated self-signed certificate instead of the key store")
	flags.Bool("echo-apikey-on-unknown-refresh", false, "report the apikey value in 'unknown refresh_token' answers")

	for key, flag := range map[string]string{
		config.KeyLogLevel:         "log-level",
		config.KeyTLSKeystorePath:  "keystore",
		config.KeyStaticRoot:       "static-root",
		config.KeyTLSSelfSigned:    "self-signed",
		config.KeyCompatEchoAPIKey: "echo-apikey-on-unknown-refresh",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

// applyPortArgs maps the positional httpPort/httpsPort arguments onto the
// configuration; they win over file and environment values. Any count other
// than two leaves the configured ports in place.
func applyPortArgs(v *viper.Viper, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 2 {
		log.Warn().Int("got", len(args)).Msg("requires 2 arguments: httpPort httpsPort; using configured ports")
		return nil
	}
	for i, key := range []string{config.KeyHTTPPort, config.KeyHTTPSPort} {
		port, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[i], err)
		}
		v.Set(key, port)
	}
	return nil
}

func run(ctx context.Context, v *viper.Viper, configFile string, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	closer, err := logging.Setup(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	displayAppname(out, c.GetAppName())

	tlsConfig, _, err := server.BuildTLSConfig(c)
	if err != nil {
		return err
	}
	handler, err := server.New(c, server.NewMetrics())
	if err != nil {
		return err
	}
	handler.PrintRoutes(out)
	log.Info().Str("static_root", handler.ContentRoot()).Msg("Serving static content")

	listeners := server.NewListeners(c, handler, tlsConfig)
	if err := listeners.Listen(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return listeners.Serve(ctx)
}

func displayAppname(out io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(out, myFigure.String())
}
