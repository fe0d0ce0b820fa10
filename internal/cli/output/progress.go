package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress draws a single-line operation counter, redrawn in place.
type Progress struct {
	w       io.Writer
	title   string
	total   int64
	current int64
	width   int
	step    int64
	mu      sync.Mutex
}

// NewProgress creates a progress line for total operations.
func NewProgress(w io.Writer, title string, total int64) *Progress {
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &Progress{
		w:     w,
		title: title,
		total: total,
		width: 30,
		step:  step,
	}
}

// Add records n finished operations. The line is redrawn about every
// percent.
func (p *Progress) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := p.current / p.step
	p.current += n
	if p.current/p.step != before {
		p.render()
	}
}

// Finish draws the completed line and ends it.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	fmt.Fprintln(p.w)
}

func (p *Progress) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d ops", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)
	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d)", p.title, bar, percent*100, p.current, p.total)
}
