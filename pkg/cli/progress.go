package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const progressWidth = 30

// BatchProgress draws a one-line bar on a terminal while a batch file is
// converted. Cached and failed entries are counted separately; failed ones
// show as '✗' in the bar.
type BatchProgress struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	marks   []rune
	total   int
	done    int
	cached  int
	failed  int
	started time.Time
	now     func() time.Time
}

// NewBatchProgress returns a bar labelled with the batch file name. A nil w
// means os.Stderr.
func NewBatchProgress(w io.Writer, label string) *BatchProgress {
	if w == nil {
		w = os.Stderr
	}
	return &BatchProgress{w: w, label: label, now: time.Now}
}

// Start resets the bar for total entries.
func (p *BatchProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = max(total, 0)
	p.marks = make([]rune, 0, p.total)
	p.done, p.cached, p.failed = 0, 0, 0
	p.started = p.now()
	p.render()
}

// Record counts one finished entry. Entries past the total are ignored.
func (p *BatchProgress) Record(cached, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done >= p.total {
		return
	}
	p.done++
	mark := '█'
	switch {
	case failed:
		p.failed++
		mark = '✗'
	case cached:
		p.cached++
	}
	p.marks = append(p.marks, mark)
	p.render()
}

// Finish ends the line with a summary.
func (p *BatchProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.render()
	fmt.Fprintf(p.w, " in %s\n", p.now().Sub(p.started).Round(time.Millisecond))
}

// bar scales the per-entry marks to progressWidth cells. A cell is marked
// failed when any entry it covers failed.
func (p *BatchProgress) bar() string {
	total := p.total
	var sb strings.Builder
	for cell := range progressWidth {
		lo := cell * total / progressWidth
		hi := max((cell+1)*total/progressWidth, lo+1)
		if lo >= len(p.marks) {
			sb.WriteRune('░')
			continue
		}
		r := '█'
		for _, m := range p.marks[lo:min(hi, len(p.marks))] {
			if m == '✗' {
				r = m
				break
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (p *BatchProgress) render() {
	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s [%s] %d/%d", p.label, p.bar(), p.done, p.total)
	if p.cached > 0 {
		fmt.Fprintf(p.w, ", %d cached", p.cached)
	}
	if p.failed > 0 {
		fmt.Fprintf(p.w, ", %d failed", p.failed)
	}
}
