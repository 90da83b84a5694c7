// Package report prints operator-facing status lines. These are the human
// progress markers of a run, separate from the structured logs.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.BgGreen, color.FgBlack).Sprint(" ✓ ")
	failMark = color.New(color.BgRed, color.FgBlack).Sprint(" ✕ ")
	warnMark = color.New(color.BgYellow, color.FgBlack).Sprint(" → ")
	bold     = color.New(color.Bold)
)

// Reporter writes status lines to the given streams. Successes go to Out,
// failures and warnings to Err.
type Reporter struct {
	Out io.Writer
	Err io.Writer
}

// Default writes to the process stdout/stderr.
var Default = &Reporter{Out: os.Stdout, Err: os.Stderr}

// OK reports a completed action, e.g. ` ✓  Email: Sent.`
func (r *Reporter) OK(what string, format string, a ...any) {
	fmt.Fprintf(r.Out, "%s %s: %s\n", okMark, bold.Sprint(what), fmt.Sprintf(format, a...))
}

// Fail reports a failed action, e.g. ` ✕  statuspage.io: invalid link`.
func (r *Reporter) Fail(what string, format string, a ...any) {
	fmt.Fprintf(r.Err, "%s %s: %s\n", failMark, bold.Sprint(what), fmt.Sprintf(format, a...))
}

// Warn reports a degraded but non-failing condition.
func (r *Reporter) Warn(what string, format string, a ...any) {
	fmt.Fprintf(r.Err, "%s %s: %s\n", warnMark, bold.Sprint(what), fmt.Sprintf(format, a...))
}

// OK calls Default.OK.
func OK(what string, format string, a ...any) {
	Default.OK(what, format, a...)
}

// Fail calls Default.Fail.
func Fail(what string, format string, a ...any) {
	Default.Fail(what, format, a...)
}

// Warn calls Default.Warn.
func Warn(what string, format string, a ...any) {
	Default.Warn(what, format, a...)
}
