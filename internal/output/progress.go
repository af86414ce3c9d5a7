package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Progress draws an in-place per-file status line. The line is only drawn
// when the destination is a terminal, so piped or redirected output stays
// clean.
type Progress struct {
	w     io.Writer
	live  bool
	count int
}

// NewProgress creates a Progress writing to w. The in-place status line is
// enabled only when w is a TTY.
func NewProgress(w io.Writer) *Progress {
	live := false
	if f, ok := w.(*os.File); ok {
		live = term.IsTerminal(int(f.Fd()))
	}
	return &Progress{w: w, live: live}
}

// Step reports that the next file is being processed.
func (p *Progress) Step(relPath string) {
	p.count++
	if !p.live {
		return
	}
	if len(relPath) > 50 {
		relPath = relPath[:50]
	}
	fmt.Fprintf(p.w, "\r%-70s", fmt.Sprintf("[#%d] Processing: %s...", p.count, relPath))
}

// Done terminates the status line.
func (p *Progress) Done() {
	if p.live && p.count > 0 {
		fmt.Fprintln(p.w)
	}
}

// Count returns the number of files reported so far.
func (p *Progress) Count() int {
	return p.count
}
