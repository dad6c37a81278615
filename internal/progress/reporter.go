package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for long loops such as profile
// scraping and page rendering.
type Reporter interface {
	Start(total int, description string)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a CIReporter when running under CI, a bar otherwise
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: os.Stderr, every: 50}
	}
	return &TerminalReporter{}
}

// TerminalReporter draws a progress bar on stderr
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int, description string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints a line every few items, suitable for CI logs
type CIReporter struct {
	out   io.Writer
	every int
	total int
	desc  string
}

// NewCIReporter writes a line to out every n items
func NewCIReporter(out io.Writer, n int) *CIReporter {
	if n < 1 {
		n = 1
	}
	return &CIReporter{out: out, every: n}
}

func (r *CIReporter) Start(total int, description string) {
	r.total = total
	r.desc = description
	fmt.Fprintf(r.out, "%s: %d items\n", description, total)
}

func (r *CIReporter) Update(current int, message string) {
	if current%r.every == 0 || current == r.total {
		fmt.Fprintf(r.out, "  [%d/%d] %s\n", current, r.total, message)
	}
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out, "%s: done\n", r.desc)
}

// Nop discards progress
type Nop struct{}

func (Nop) Start(int, string)  {}
func (Nop) Update(int, string) {}
func (Nop) Finish()            {}
