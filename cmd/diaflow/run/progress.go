package run

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/stage"
)

// progressReporter prints the current stage's counters on a ticker. It is fed
// by the stage runner through stage.Observer.
type progressReporter struct {
	interval time.Duration
	w        io.Writer

	mu        sync.Mutex
	stageName string
	total     int
	processed int
	failed    int

	done chan struct{}
	wg   sync.WaitGroup
}

// newProgressReporter returns nil when progress output is disabled.
func newProgressReporter(ui config.UI, w io.Writer) *progressReporter {
	if !ui.Progress || w == nil {
		return nil
	}
	interval := ui.ProgressIntervalMs
	if interval <= 0 {
		interval = 500
	}
	return &progressReporter{
		interval: time.Duration(interval) * time.Millisecond,
		w:        w,
	}
}

func (p *progressReporter) StageStarted(name string, candidates int) {
	p.mu.Lock()
	p.stageName = name
	p.total = candidates
	p.processed = 0
	p.failed = 0
	p.mu.Unlock()
	p.emit()
}

func (p *progressReporter) FileDone(_ string, rec stage.FileRecord) {
	p.mu.Lock()
	p.processed++
	if rec.State == stage.StateFailed {
		p.failed++
	}
	p.mu.Unlock()
}

func (p *progressReporter) start() {
	p.done = make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.emit()
			case <-p.done:
				return
			}
		}
	}()
}

func (p *progressReporter) stop() {
	close(p.done)
	p.wg.Wait()
	p.emit()
}

func (p *progressReporter) emit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stageName == "" {
		return
	}
	_, _ = fmt.Fprintf(p.w, "progress stage=%s processed=%d/%d failed=%d\n", p.stageName, p.processed, p.total, p.failed)
}
