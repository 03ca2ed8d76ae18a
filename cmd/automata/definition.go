package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/nihei9/automata/driver"
	"github.com/nihei9/automata/spec"
	"github.com/nihei9/automata/syntax"
)

// sourceError is a parse error shown together with the offending line.
type sourceError struct {
	path string
	src  []byte
	err  *syntax.ParseError
}

func (e *sourceError) Error() string {
	var b strings.Builder
	if e.path != "" {
		fmt.Fprintf(&b, "%v: ", e.path)
	}
	fmt.Fprintf(&b, "%v", e.err)
	if e.err.Line > 0 {
		fmt.Fprintf(&b, "\n")
		syntax.WriteExcerpt(&b, e.src, e.err)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (e *sourceError) Unwrap() error {
	return e.err
}

func parseKindArg(arg string, allowed ...spec.Kind) (spec.Kind, error) {
	kind, err := spec.ParseKind(arg)
	if err != nil {
		return "", err
	}
	if len(allowed) == 0 {
		return kind, nil
	}
	for _, k := range allowed {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("this command does not take a %v definition; it must be one of %v", kind, allowed)
}

// readDefinition reads a definition from path, or from stdin when path is
// empty or `-`.
func readDefinition(kind spec.Kind, path string) (spec.Definition, error) {
	r := os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the definition file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	def, err := syntax.ParseString(kind, string(src))
	if err != nil {
		var perr *syntax.ParseError
		if errors.As(err, &perr) {
			return nil, &sourceError{
				path: path,
				src:  src,
				err:  perr,
			}
		}
		return nil, err
	}
	return def, nil
}

// readValidDefinition is readDefinition that also rejects invalid definitions.
func readValidDefinition(kind spec.Kind, path string) (spec.Definition, error) {
	def, err := readDefinition(kind, path)
	if err != nil {
		return nil, err
	}
	res := def.Validate()
	if !res.Valid() {
		return nil, fmt.Errorf("%v", res)
	}
	return def, nil
}

// openLogFile creates automata-<command>.log. The returned function closes
// the log with the outcome of the command.
func openLogFile(command string) (*os.File, func(err error), error) {
	fileName := fmt.Sprintf("automata-%v.log", command)
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot open the log file %s: %w", fileName, err)
	}
	fmt.Fprintf(f, `automata %v starts.
Date time: %v
---
`, command, time.Now().Format(time.RFC3339))
	return f, func(err error) {
		fmt.Fprintf(f, "---\n")
		if err != nil {
			fmt.Fprintf(f, "automata %v failed: %v\n", command, err)
		} else {
			fmt.Fprintf(f, "automata %v succeeded.\n", command)
		}
		f.Close()
	}, nil
}

// acceptor decides membership for any kind of definition.
type acceptor interface {
	accepts(input string) (bool, error)
}

type dfaAcceptor struct {
	sim *driver.DFASimulator
}

func (a *dfaAcceptor) accepts(input string) (bool, error) {
	return a.sim.Accepts(input), nil
}

type nfaAcceptor struct {
	sim *driver.NFASimulator
}

func (a *nfaAcceptor) accepts(input string) (bool, error) {
	return a.sim.Accepts(input), nil
}

type pdaAcceptor struct {
	sim *driver.PDASimulator
}

func (a *pdaAcceptor) accepts(input string) (bool, error) {
	return a.sim.Accepts(input)
}

type cfgAcceptor struct {
	r *driver.Recognizer
}

func (a *cfgAcceptor) accepts(input string) (bool, error) {
	return a.r.Generates(input), nil
}

func newAcceptor(def spec.Definition, pdaOpts ...driver.PDAOption) (acceptor, error) {
	switch def := def.(type) {
	case *spec.DFA:
		sim, err := driver.NewDFASimulator(def)
		if err != nil {
			return nil, err
		}
		return &dfaAcceptor{sim: sim}, nil
	case *spec.NFA:
		sim, err := driver.NewNFASimulator(def)
		if err != nil {
			return nil, err
		}
		return &nfaAcceptor{sim: sim}, nil
	case *spec.PDA:
		sim, err := driver.NewPDASimulator(def, pdaOpts...)
		if err != nil {
			return nil, err
		}
		return &pdaAcceptor{sim: sim}, nil
	case *spec.CFG:
		return &cfgAcceptor{r: driver.NewRecognizer(def)}, nil
	}
	return nil, fmt.Errorf("unsupported definition: %T", def)
}
