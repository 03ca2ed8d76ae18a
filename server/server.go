package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/nihei9/automata/compiler"
	"github.com/nihei9/automata/driver"
	"github.com/nihei9/automata/log"
	"github.com/nihei9/automata/syntax"
)

type ServerOption func(s *Server) error

func EnableLogging(w io.Writer) ServerOption {
	return func(s *Server) error {
		logger, err := log.NewLogger(w)
		if err != nil {
			return err
		}
		s.logger = logger
		return nil
	}
}

// Server exposes the engine over HTTP. It keeps no state between requests.
type Server struct {
	config *Config
	logger log.Logger
	mux    *http.ServeMux
}

func NewServer(config *Config, opts ...ServerOption) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	err := config.validate()
	if err != nil {
		return nil, err
	}
	s := &Server{
		config: config,
		logger: log.NewNopLogger(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		err := opt(s)
		if err != nil {
			return nil, err
		}
	}

	s.mux.Handle("/cfg", s.endpoint(http.MethodPost, s.handleCFG))
	s.mux.Handle("/dfa", s.endpoint(http.MethodPost, s.handleDFA))
	s.mux.Handle("/nfa", s.endpoint(http.MethodPost, s.handleNFA))
	s.mux.Handle("/pda", s.endpoint(http.MethodPost, s.handlePDA))
	s.mux.Handle("/syntax", s.endpoint(http.MethodGet, s.handleSyntax))
	if config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(config.StaticDir)))
	} else {
		s.mux.Handle("/", s.endpoint("", func(w http.ResponseWriter, r *http.Request) error {
			return newRequestError(http.StatusNotFound, errorKindNotFound, fmt.Sprintf("no endpoint at %v", r.URL.Path))
		}))
	}
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves on config.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Log("listening on %v", s.config.Addr)
		errCh <- hs.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Log("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// endpoint wraps a handler with the method check, the error mapping, and
// request logging. An empty method allows any method.
func (s *Server) endpoint(method string, h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var err error
		if method != "" && r.Method != method {
			w.Header().Set("Allow", method)
			err = newRequestError(http.StatusMethodNotAllowed, errorKindMethodNotAllowed, fmt.Sprintf("%v requires %v", r.URL.Path, method))
		} else {
			err = h(w, r)
		}
		if err == nil {
			s.logger.Log("%v %v: ok (%v)", r.Method, r.URL.Path, time.Since(start))
			return
		}
		status, detail := classify(err)
		s.logger.Log("%v %v: %v %v (%v)", r.Method, r.URL.Path, status, err, time.Since(start))
		err = writeJSON(w, status, &errorResult{
			Error: detail,
		})
		if err != nil {
			s.logger.Log("failed to write a response: %v", err)
		}
	})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	defer body.Close()
	return ioutil.ReadAll(body)
}

// writeResult writes a successful response. Once the header is sent an error
// can only be logged.
func (s *Server) writeResult(w http.ResponseWriter, v interface{}) error {
	err := writeJSON(w, http.StatusOK, v)
	if err != nil {
		s.logger.Log("failed to write a response: %v", err)
	}
	return nil
}

func (s *Server) handleCFG(w http.ResponseWriter, r *http.Request) error {
	src, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	cfg, err := syntax.ParseCFG(bytes.NewReader(src))
	if err != nil {
		return err
	}
	res := cfg.Validate()
	return s.writeResult(w, &cfgResult{
		IsValidCFG: res.Valid(),
		Violations: res.Violations,
	})
}

func (s *Server) handleDFA(w http.ResponseWriter, r *http.Request) error {
	src, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	var req dfaRequest
	err = json.Unmarshal(src, &req)
	if err != nil {
		return newRequestError(http.StatusBadRequest, errorKindInvalidRequest, fmt.Sprintf("malformed request: %v", err))
	}
	dfa, err := syntax.ParseDFA(strings.NewReader(req.DFADefinition))
	if err != nil {
		return err
	}
	res := dfa.Validate()
	result := &dfaResult{
		IsValidDFA: res.Valid(),
		Violations: res.Violations,
	}
	if res.Valid() {
		sim, err := driver.NewDFASimulator(dfa)
		if err != nil {
			return err
		}
		result.AcceptsInput = sim.Accepts(req.InputString)
	}
	return s.writeResult(w, result)
}

func (s *Server) handleNFA(w http.ResponseWriter, r *http.Request) error {
	src, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	nfa, err := syntax.ParseNFA(bytes.NewReader(src))
	if err != nil {
		return err
	}
	res := nfa.Validate()
	if !res.Valid() {
		return invalidDefinitionError(res)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.ConversionTimeout)
	defer cancel()
	dfa, err := compiler.NFAToDFA(ctx, nfa,
		compiler.UseLogger(log.WithPrefix(s.logger, "nfa: ")),
		compiler.MaxDFAStates(s.config.MaxDFAStates),
	)
	if err != nil {
		return err
	}
	return s.writeResult(w, &nfaResult{
		DFA: dfa.String(),
	})
}

func (s *Server) handlePDA(w http.ResponseWriter, r *http.Request) error {
	src, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	pda, err := syntax.ParsePDA(bytes.NewReader(src))
	if err != nil {
		return err
	}
	res := pda.Validate()
	if !res.Valid() {
		return invalidDefinitionError(res)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.ConversionTimeout)
	defer cancel()
	cfg, err := compiler.PDAToCFG(ctx, pda,
		compiler.UseLogger(log.WithPrefix(s.logger, "pda: ")),
		compiler.MaxProductions(s.config.MaxProductions),
	)
	if err != nil {
		return err
	}
	return s.writeResult(w, &pdaResult{
		CFG: cfg.String(),
	})
}

func (s *Server) handleSyntax(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := io.WriteString(w, syntax.EBNF)
	if err != nil {
		s.logger.Log("failed to write a response: %v", err)
	}
	return nil
}
