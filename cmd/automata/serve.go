package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nihei9/automata/server"
	"github.com/spf13/cobra"
)

var serveFlags = struct {
	addr           *string
	static         *string
	maxBody        *int64
	timeout        *time.Duration
	maxDFAStates   *int
	maxProductions *int
	debug          *bool
}{}

func init() {
	defaults := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `serve exposes validation and conversion over HTTP:
  POST /cfg  POST /dfa  POST /nfa  POST /pda  GET /syntax`,
		Example: `  automata serve --addr :8080 --static ./web`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
	serveFlags.addr = cmd.Flags().String("addr", defaults.Addr, "address to listen on")
	serveFlags.static = cmd.Flags().String("static", defaults.StaticDir, "directory of static files served at /")
	serveFlags.maxBody = cmd.Flags().Int64("max-body", defaults.MaxBodyBytes, "maximum request body size in bytes")
	serveFlags.timeout = cmd.Flags().Duration("timeout", defaults.ConversionTimeout, "time limit of a conversion")
	serveFlags.maxDFAStates = cmd.Flags().Int("max-dfa-states", defaults.MaxDFAStates, "maximum number of states of a converted DFA")
	serveFlags.maxProductions = cmd.Flags().Int("max-productions", defaults.MaxProductions, "maximum number of productions of a converted CFG")
	serveFlags.debug = cmd.Flags().BoolP("debug", "d", false, "output requests and conversion steps to automata-serve.log")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) (retErr error) {
	config := &server.Config{
		Addr:              *serveFlags.addr,
		StaticDir:         *serveFlags.static,
		MaxBodyBytes:      *serveFlags.maxBody,
		ConversionTimeout: *serveFlags.timeout,
		MaxDFAStates:      *serveFlags.maxDFAStates,
		MaxProductions:    *serveFlags.maxProductions,
	}

	var opts []server.ServerOption
	if *serveFlags.debug {
		f, done, err := openLogFile("serve")
		if err != nil {
			return err
		}
		defer func() {
			done(retErr)
		}()
		opts = append(opts, server.EnableLogging(f))
	}

	s, err := server.NewServer(config, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
