package log

import (
	"strings"
	"sync"
	"testing"
)

func TestLogger(t *testing.T) {
	var b strings.Builder
	l, err := NewLogger(&b)
	if err != nil {
		t.Fatal(err)
	}
	l.Log("root %v", 1)
	nfa := WithPrefix(l, "nfa: ")
	nfa.Log("Subset construction: %v states", 3)
	WithPrefix(nfa, "sub: ").Log("done")

	expected := "root 1\nnfa: Subset construction: 3 states\nnfa: sub: done\n"
	if b.String() != expected {
		t.Fatalf("unexpected log; want: %q, got: %q", expected, b.String())
	}
}

func TestLogger_PrefixIsNotAFormat(t *testing.T) {
	var b strings.Builder
	l, err := NewLogger(&b)
	if err != nil {
		t.Fatal(err)
	}
	WithPrefix(l, "100%v done: ").Log("%v%%", 5)
	expected := "100%v done: 5%\n"
	if b.String() != expected {
		t.Fatalf("unexpected log; want: %q, got: %q", expected, b.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var b strings.Builder
	l, err := NewLogger(&b)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			WithPrefix(l, "w: ").Log("%v", i)
		}(i)
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("unexpected number of lines; want: 8, got: %v", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "w: ") {
			t.Fatalf("broken line: %q", line)
		}
	}
}

func TestNewLogger_NilWriter(t *testing.T) {
	_, err := NewLogger(nil)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestNopLogger(t *testing.T) {
	l := WithPrefix(NewNopLogger(), "x: ")
	if _, ok := l.(*nopLogger); !ok {
		t.Fatalf("WithPrefix must keep a nop logger; got: %T", l)
	}
	l.Log("discarded %v", 1)
}
