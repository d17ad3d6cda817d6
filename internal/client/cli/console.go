package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// console serialises writes from the REPL and from background goroutines
// (auto-refresh, downloads) onto one writer.
type console struct {
	mu  sync.Mutex
	w   io.Writer
	tty bool

	// inLine is set while a progress line is being redrawn in place.
	inLine bool

	r      *lipgloss.Renderer
	alert  lipgloss.Style
	accent lipgloss.Style
	faint  lipgloss.Style
}

func newConsole(w io.Writer) *console {
	r := lipgloss.NewRenderer(w)
	return &console{
		w:      w,
		tty:    isTerminal(w),
		r:      r,
		alert:  r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		accent: r.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		faint:  r.NewStyle().Faint(true),
	}
}

// isTerminal is a test seam for TTY detection.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *console) Println(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLineLocked()
	fmt.Fprintln(c.w, args...)
}

func (c *console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLineLocked()
	fmt.Fprintf(c.w, format, args...)
}

// Block prints a multi-line block followed by a newline.
func (c *console) Block(s string) {
	c.Println(strings.TrimRight(s, "\n"))
}

// Progress redraws a progress line in place on a terminal. Elsewhere it
// prints a new line only when the percentage crosses a multiple of ten or
// reaches 100.
func (c *console) Progress(label string, percent, last int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := fmt.Sprintf("%s %s %3d%%", label, progressBar(percent, 30), percent)
	if c.tty {
		fmt.Fprint(c.w, "\r"+line)
		c.inLine = true
		return
	}
	if percent == 0 || percent == 100 || percent/10 != last/10 {
		fmt.Fprintln(c.w, line)
	}
}

// EndProgress terminates an in-place progress line.
func (c *console) EndProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLineLocked()
}

func (c *console) breakLineLocked() {
	if c.inLine {
		fmt.Fprintln(c.w)
		c.inLine = false
	}
}

func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
