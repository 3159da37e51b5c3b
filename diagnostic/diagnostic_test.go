package diagnostic_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lexer"
)

func at(file string, offset int) hir.Location {
	pos := lexer.Pos{Offset: offset, Line: 1, Column: offset + 1}
	return hir.Location{File: file, Span: lexer.Span{Start: pos, End: pos}}
}

func TestCollectorOrder(t *testing.T) {
	var c diagnostic.Collector
	var wg sync.WaitGroup
	for i := 9; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Report(diagnostic.New(diagnostic.Unresolved, at("b.sol", i), "unresolved %d", i))
		}(i)
	}
	wg.Wait()
	c.Report(diagnostic.Warn(diagnostic.MultipleDoNotation, at("a.sol", 3), "ignored"))

	diags := c.Diagnostics()
	if len(diags) != 11 {
		t.Fatalf("got %d diagnostics, want 11", len(diags))
	}
	if diags[0].Location.File != "a.sol" {
		t.Errorf("first diagnostic is in %s, want a.sol", diags[0].Location.File)
	}
	for i := 2; i < len(diags); i++ {
		if diags[i-1].Location.Span.Start.Offset > diags[i].Location.Span.Start.Offset {
			t.Fatalf("diagnostics out of order at %d: %v", i, diags)
		}
	}
	if c.Errors() != 10 {
		t.Errorf("Errors() = %d, want 10", c.Errors())
	}
	if n := len(c.Filter(diagnostic.MultipleDoNotation)); n != 1 {
		t.Errorf("got %d do-notation warnings, want 1", n)
	}
}

func TestPrinterMax(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		diagnostic.New(diagnostic.TypeMismatch, at("a.sol", 0), "first"),
		diagnostic.Warn(diagnostic.MultipleDoNotation, at("a.sol", 1), "note"),
		diagnostic.New(diagnostic.TypeMismatch, at("a.sol", 2), "second"),
	}
	var b strings.Builder
	if err := (diagnostic.Printer{Max: 1}).Fprint(&b, diags); err != nil {
		t.Fatal(err)
	}
	want := "a.sol:1:1: error: first [type mismatch]\n" +
		"a.sol:1:2: warning: note [multiple do-notation blocks]\n" +
		"too many errors\n"
	if b.String() != want {
		t.Errorf("got\n%s\nwant\n%s", b.String(), want)
	}
}
