package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nihei9/automata/spec"
	"github.com/nihei9/automata/syntax"
)

type cfgResult struct {
	IsValidCFG bool              `json:"is_valid_cfg"`
	Violations []*spec.Violation `json:"violations,omitempty"`
}

type dfaRequest struct {
	DFADefinition string `json:"dfaDefinition"`
	InputString   string `json:"inputString"`
}

type dfaResult struct {
	IsValidDFA   bool              `json:"is_valid_dfa"`
	AcceptsInput bool              `json:"accepts_input"`
	Violations   []*spec.Violation `json:"violations,omitempty"`
}

type nfaResult struct {
	DFA string `json:"dfa"`
}

type pdaResult struct {
	CFG string `json:"cfg"`
}

type errorKind string

const (
	errorKindParse             = errorKind("parse_error")
	errorKindInvalidRequest    = errorKind("invalid_request")
	errorKindInvalidDefinition = errorKind("invalid_definition")
	errorKindResourceExceeded  = errorKind("resource_exceeded")
	errorKindTooLarge          = errorKind("request_too_large")
	errorKindInternal          = errorKind("internal_error")
	errorKindMethodNotAllowed  = errorKind("method_not_allowed")
	errorKindNotFound          = errorKind("not_found")
)

type errorDetail struct {
	Kind       errorKind         `json:"kind"`
	Message    string            `json:"message"`
	Line       int               `json:"line,omitempty"`
	Column     int               `json:"column,omitempty"`
	Violations []*spec.Violation `json:"violations,omitempty"`
}

type errorResult struct {
	Error *errorDetail `json:"error"`
}

// requestError is an error the handlers turn into a response as is.
type requestError struct {
	status int
	detail *errorDetail
}

func (e *requestError) Error() string {
	return e.detail.Message
}

func newRequestError(status int, kind errorKind, message string) *requestError {
	return &requestError{
		status: status,
		detail: &errorDetail{
			Kind:    kind,
			Message: message,
		},
	}
}

func invalidDefinitionError(res *spec.ValidationResult) *requestError {
	e := newRequestError(http.StatusUnprocessableEntity, errorKindInvalidDefinition, res.String())
	e.detail.Violations = res.Violations
	return e
}

// classify maps an error to its status code and payload.
func classify(err error) (int, *errorDetail) {
	var rerr *requestError
	if errors.As(err, &rerr) {
		return rerr.status, rerr.detail
	}
	var perr *syntax.ParseError
	if errors.As(err, &perr) {
		return http.StatusBadRequest, &errorDetail{
			Kind:    errorKindParse,
			Message: perr.Error(),
			Line:    perr.Line,
			Column:  perr.Column,
		}
	}
	var merr *http.MaxBytesError
	if errors.As(err, &merr) {
		return http.StatusRequestEntityTooLarge, &errorDetail{
			Kind:    errorKindTooLarge,
			Message: err.Error(),
		}
	}
	var xerr *spec.ResourceExceededError
	if errors.As(err, &xerr) {
		return http.StatusUnprocessableEntity, &errorDetail{
			Kind:    errorKindResourceExceeded,
			Message: xerr.Error(),
		}
	}
	return http.StatusInternalServerError, &errorDetail{
		Kind:    errorKindInternal,
		Message: err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
