package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const boundaryDFA = `states: q0, q1
alphabet: a, b
start: q0
accept: q1
q0, a -> q1
q1, b -> q0
`

func dfaRequestBody(t *testing.T, def, input string) string {
	t.Helper()
	b, err := json.Marshal(&dfaRequest{
		DFADefinition: def,
		InputString:   input,
	})
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	return string(b)
}

func newTestServer(t *testing.T, config *Config) *Server {
	t.Helper()
	s, err := NewServer(config)
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var payload map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		err := json.Unmarshal(rec.Body.Bytes(), &payload)
		if err != nil {
			t.Fatalf("the response is not JSON: %v\n%v", err, rec.Body.String())
		}
	}
	return rec, payload
}

func errorKindOf(payload map[string]interface{}) string {
	e, ok := payload["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	k, _ := e["kind"].(string)
	return k
}

func TestServer(t *testing.T) {
	tests := []struct {
		caption string
		method  string
		path    string
		body    func(t *testing.T) string
		status  int
		check   func(t *testing.T, payload map[string]interface{})
	}{
		{
			caption: "a valid CFG",
			method:  http.MethodPost,
			path:    "/cfg",
			body: func(t *testing.T) string {
				return "nonterminals: S\nterminals: a, b\nstart: S\nS -> a S b | ε\n"
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_cfg"] != true {
					t.Fatalf("unexpected payload: %v", payload)
				}
				if _, ok := payload["violations"]; ok {
					t.Fatalf("violations must be omitted: %v", payload)
				}
			},
		},
		{
			caption: "a CFG whose start symbol has no production",
			method:  http.MethodPost,
			path:    "/cfg",
			body: func(t *testing.T) string {
				return "nonterminals: S, A\nterminals: a\nstart: S\nA -> a\n"
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_cfg"] != false {
					t.Fatalf("unexpected payload: %v", payload)
				}
				vs, ok := payload["violations"].([]interface{})
				if !ok || len(vs) != 1 {
					t.Fatalf("unexpected violations: %v", payload)
				}
				if vs[0].(map[string]interface{})["code"] != "no_start_production" {
					t.Fatalf("unexpected violation: %v", vs[0])
				}
			},
		},
		{
			caption: "an unbalanced production",
			method:  http.MethodPost,
			path:    "/cfg",
			body: func(t *testing.T) string {
				return "nonterminals: S\nterminals: a\nstart: S\nS ->\n"
			},
			status: http.StatusBadRequest,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "parse_error" {
					t.Fatalf("unexpected payload: %v", payload)
				}
				if payload["error"].(map[string]interface{})["line"] != float64(4) {
					t.Fatalf("unexpected line: %v", payload)
				}
			},
		},
		{
			caption: "an unknown nonterminal",
			method:  http.MethodPost,
			path:    "/cfg",
			body: func(t *testing.T) string {
				return "nonterminals: S\nterminals: a\nstart: S\nS -> a\nA -> a\n"
			},
			status: http.StatusBadRequest,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "parse_error" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "the boundary DFA accepts `a`",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return dfaRequestBody(t, boundaryDFA, "a")
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_dfa"] != true || payload["accepts_input"] != true {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "the boundary DFA rejects `ab`",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return dfaRequestBody(t, boundaryDFA, "ab")
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_dfa"] != true || payload["accepts_input"] != false {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "the boundary DFA rejects a symbol outside the alphabet",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return dfaRequestBody(t, boundaryDFA, "c")
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_dfa"] != true || payload["accepts_input"] != false {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "a non-deterministic DFA",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return dfaRequestBody(t, "states: q0, q1\nalphabet: a\nstart: q0\naccept: q1\nq0, a -> q0, q1\n", "a")
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["is_valid_dfa"] != false || payload["accepts_input"] != false {
					t.Fatalf("unexpected payload: %v", payload)
				}
				if _, ok := payload["violations"]; !ok {
					t.Fatalf("violations are missing: %v", payload)
				}
			},
		},
		{
			caption: "malformed JSON",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return `{"dfaDefinition": `
			},
			status: http.StatusBadRequest,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "invalid_request" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "a DFA definition that cannot be parsed",
			method:  http.MethodPost,
			path:    "/dfa",
			body: func(t *testing.T) string {
				return dfaRequestBody(t, "states: q0\nalphabet: a\n", "a")
			},
			status: http.StatusBadRequest,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "parse_error" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "an NFA is converted",
			method:  http.MethodPost,
			path:    "/nfa",
			body: func(t *testing.T) string {
				return "states: q0, q1\nalphabet: a\nstart: q0\naccept: q1\nq0, ε -> q1\nq1, a -> q1\n"
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				want := "states: {q0,q1}, {q1}\nalphabet: a\nstart: {q0,q1}\naccept: {q0,q1}, {q1}\n{q0,q1}, a -> {q1}\n{q1}, a -> {q1}\n"
				if payload["dfa"] != want {
					t.Fatalf("unexpected DFA; want:\n%v\ngot:\n%v", want, payload["dfa"])
				}
			},
		},
		{
			caption: "an NFA referring to an undeclared state",
			method:  http.MethodPost,
			path:    "/nfa",
			body: func(t *testing.T) string {
				return "states: q0\nalphabet: a\nstart: q0\nq0, a -> q9\n"
			},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "invalid_definition" {
					t.Fatalf("unexpected payload: %v", payload)
				}
				if _, ok := payload["error"].(map[string]interface{})["violations"]; !ok {
					t.Fatalf("violations are missing: %v", payload)
				}
			},
		},
		{
			caption: "a PDA is converted",
			method:  http.MethodPost,
			path:    "/pda",
			body: func(t *testing.T) string {
				return "states: p\ninput: a\nstack: Z\nstart: p\nbottom: Z\nacceptance: empty\np, a, Z -> p, ε\n"
			},
			status: http.StatusOK,
			check: func(t *testing.T, payload map[string]interface{}) {
				want := "nonterminals: S, [p,Z,p]\nterminals: a\nstart: S\nS -> [p,Z,p]\n[p,Z,p] -> a\n"
				if payload["cfg"] != want {
					t.Fatalf("unexpected CFG; want:\n%v\ngot:\n%v", want, payload["cfg"])
				}
			},
		},
		{
			caption: "a PDA with an unknown bottom symbol",
			method:  http.MethodPost,
			path:    "/pda",
			body: func(t *testing.T) string {
				return "states: p\ninput: a\nstack: Z\nstart: p\nbottom: Y\np, a, Z -> p, ε\n"
			},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "invalid_definition" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "a wrong method",
			method:  http.MethodGet,
			path:    "/cfg",
			body: func(t *testing.T) string {
				return ""
			},
			status: http.StatusMethodNotAllowed,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "method_not_allowed" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
		{
			caption: "an unknown path",
			method:  http.MethodPost,
			path:    "/tm",
			body: func(t *testing.T) string {
				return ""
			},
			status: http.StatusNotFound,
			check: func(t *testing.T, payload map[string]interface{}) {
				if errorKindOf(payload) != "not_found" {
					t.Fatalf("unexpected payload: %v", payload)
				}
			},
		},
	}
	s := newTestServer(t, DefaultConfig())
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			rec, payload := do(t, s, tt.method, tt.path, tt.body(t))
			if rec.Code != tt.status {
				t.Fatalf("unexpected status; want: %v, got: %v\n%v", tt.status, rec.Code, rec.Body.String())
			}
			tt.check(t, payload)
		})
	}
}

func TestServer_ConvertedDefinitionsAreAccepted(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	_, payload := do(t, s, http.MethodPost, "/nfa", "states: q0, q1, q2\nalphabet: a, b\nstart: q0\naccept: q2\nq0, a -> q0, q1\nq0, b -> q0\nq1, b -> q2\n")
	dfa, ok := payload["dfa"].(string)
	if !ok {
		t.Fatalf("unexpected payload: %v", payload)
	}
	for input, want := range map[string]bool{"ab": true, "aab": true, "ba": false, "": false} {
		rec, payload := do(t, s, http.MethodPost, "/dfa", dfaRequestBody(t, dfa, input))
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: %v\n%v", rec.Code, rec.Body.String())
		}
		if payload["is_valid_dfa"] != true || payload["accepts_input"] != want {
			t.Fatalf("unexpected payload for %q: %v", input, payload)
		}
	}

	_, payload = do(t, s, http.MethodPost, "/pda", "states: p, q, f\ninput: a, b\nstack: A, Z\nstart: p\nbottom: Z\naccept: f\np, a, Z -> p, A Z\np, a, A -> p, A A\np, b, A -> q, ε\nq, b, A -> q, ε\nq, ε, Z -> f, Z\n")
	cfg, ok := payload["cfg"].(string)
	if !ok {
		t.Fatalf("unexpected payload: %v", payload)
	}
	rec, payload := do(t, s, http.MethodPost, "/cfg", cfg)
	if rec.Code != http.StatusOK || payload["is_valid_cfg"] != true {
		t.Fatalf("the converted CFG is not accepted: %v\n%v", payload, cfg)
	}
}

func TestServer_Limits(t *testing.T) {
	t.Run("a body exceeding the limit", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxBodyBytes = 16
		s := newTestServer(t, config)
		rec, payload := do(t, s, http.MethodPost, "/cfg", "nonterminals: S\nterminals: a\nstart: S\nS -> a\n")
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("unexpected status: %v", rec.Code)
		}
		if errorKindOf(payload) != "request_too_large" {
			t.Fatalf("unexpected payload: %v", payload)
		}
	})

	t.Run("too many DFA states", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxDFAStates = 1
		s := newTestServer(t, config)
		rec, payload := do(t, s, http.MethodPost, "/nfa", "states: q0, q1\nalphabet: a\nstart: q0\nq0, a -> q1\n")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("unexpected status: %v", rec.Code)
		}
		if errorKindOf(payload) != "resource_exceeded" {
			t.Fatalf("unexpected payload: %v", payload)
		}
	})

	t.Run("too many productions", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxProductions = 1
		s := newTestServer(t, config)
		rec, payload := do(t, s, http.MethodPost, "/pda", "states: p, q\ninput: a\nstack: Z\nstart: p\nbottom: Z\naccept: q\np, a, Z -> q, Z\n")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("unexpected status: %v", rec.Code)
		}
		if errorKindOf(payload) != "resource_exceeded" {
			t.Fatalf("unexpected payload: %v", payload)
		}
	})

	t.Run("an invalid configuration", func(t *testing.T) {
		config := DefaultConfig()
		config.ConversionTimeout = 0
		_, err := NewServer(config)
		if err == nil {
			t.Fatalf("expected error didn't occur")
		}
	})
}

func TestServer_Syntax(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	rec, _ := do(t, s, http.MethodGet, "/syntax", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %v", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Definition") {
		t.Fatalf("unexpected body: %v", rec.Body.String())
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	err := ioutil.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>automata</h1>"), 0644)
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	config := DefaultConfig()
	config.StaticDir = dir
	s := newTestServer(t, config)

	rec, _ := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %v", rec.Code)
	}
	if rec.Body.String() != "<h1>automata</h1>" {
		t.Fatalf("unexpected body: %v", rec.Body.String())
	}

	rec, payload := do(t, s, http.MethodPost, "/cfg", "nonterminals: S\nstart: S\nS -> ε\n")
	if rec.Code != http.StatusOK || payload["is_valid_cfg"] != true {
		t.Fatalf("endpoints must take precedence over static files: %v %v", rec.Code, payload)
	}
}

func TestServer_Logging(t *testing.T) {
	f, err := ioutil.TempFile(t.TempDir(), "server-*.log")
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	defer f.Close()
	s, err := NewServer(DefaultConfig(), EnableLogging(f))
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	do(t, s, http.MethodPost, "/nfa", "states: q0\nalphabet: a\nstart: q0\nq0, a -> q0\n")

	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("unexpected error occurred: %v", err)
	}
	log := string(b)
	if !strings.Contains(log, "nfa: Subset construction: 1 states") {
		t.Fatalf("the converter log is missing:\n%v", log)
	}
	if !strings.Contains(log, "POST /nfa: ok") {
		t.Fatalf("the request log is missing:\n%v", log)
	}
}
