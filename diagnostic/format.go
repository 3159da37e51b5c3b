package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UseColor reports whether output written to f should be colored.
func UseColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printer writes diagnostics one per line, stopping after Max errors when
// Max is positive.
type Printer struct {
	Color bool
	Max   int
}

func (p Printer) Fprint(w io.Writer, diags []Diagnostic) error {
	errors := 0
	for _, d := range diags {
		if d.Severity == Error {
			errors++
			if p.Max > 0 && errors > p.Max {
				_, err := fmt.Fprintf(w, "too many errors\n")
				return err
			}
		}
		if _, err := fmt.Fprintln(w, p.format(d)); err != nil {
			return err
		}
	}
	return nil
}

func (p Printer) format(d Diagnostic) string {
	if !p.Color {
		return fmt.Sprintf("%s: %s: %s [%s]", d.Location, d.Severity, d.Message, d.Kind)
	}
	color := ansiRed
	if d.Severity == Warning {
		color = ansiYellow
	}
	return fmt.Sprintf("%s%s:%s %s%s%s: %s [%s]", ansiBold, d.Location, ansiReset, color, d.Severity, ansiReset, d.Message, d.Kind)
}
