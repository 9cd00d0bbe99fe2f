// Package progress prints run progress for long index scans.
package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// DefaultEvery is how many entries pass between two progress lines.
const DefaultEvery = 1000

// Reporter writes section banners and percentage lines. A nil *Reporter
// discards everything.
type Reporter struct {
	out         io.Writer
	every       int
	interactive bool
	banner      lipgloss.Style
	pending     bool
}

// New returns a Reporter writing to w. On a terminal progress is
// rewritten in place and banners are drawn with a border.
func New(w io.Writer, every int) *Reporter {
	if every <= 0 {
		every = DefaultEvery
	}
	return &Reporter{
		out:         w,
		every:       every,
		interactive: IsTTY(w),
		banner: lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1),
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Section announces the start of a run stage.
func (r *Reporter) Section(msg string) {
	if r == nil {
		return
	}
	r.endLine()
	if r.interactive {
		_, _ = fmt.Fprintln(r.out, r.banner.Render(msg))
		return
	}
	rule := strings.Repeat("-", len(msg)+6)
	_, _ = fmt.Fprintf(r.out, "%s\n-- %s --\n%s\n", rule, msg, rule)
}

// Printf writes a plain message line.
func (r *Reporter) Printf(format string, args ...any) {
	if r == nil {
		return
	}
	r.endLine()
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Step reports that the entry at zero-based position i of total is being
// processed. Only every Nth position produces output.
func (r *Reporter) Step(i, total int) {
	if r == nil || total <= 0 || i%r.every != 0 {
		return
	}
	line := "Progress: " + Percent(i, total) + "%..."
	if r.interactive {
		_, _ = fmt.Fprint(r.out, "\r"+line)
		r.pending = true
		return
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// Done prints the final 100% line.
func (r *Reporter) Done() {
	if r == nil {
		return
	}
	if r.interactive {
		_, _ = fmt.Fprint(r.out, "\r")
	}
	_, _ = fmt.Fprintln(r.out, "Progress: 100%")
	r.pending = false
}

func (r *Reporter) endLine() {
	if r.pending {
		_, _ = fmt.Fprintln(r.out)
		r.pending = false
	}
}

// Percent formats 100*i/total rounded to two decimals.
func Percent(i, total int) string {
	p := math.Round(10000*float64(i)/float64(total)) / 100
	return strconv.FormatFloat(p, 'f', -1, 64)
}
