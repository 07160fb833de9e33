package main

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	progressUpdateInterval = 100 * time.Millisecond
	clearLineSequence      = "\r\033[K"
)

// ProgressPrinter displays progress messages with elapsed or remaining time.
//
// Usage:
//
//	p := NewProgressPrinter(...)
//	p.Start()
//	defer p.Stop()
//
// A ProgressPrinter is single-use. Start may be called at most once, and
// Stop must be called to terminate the internal goroutine.
type ProgressPrinter struct {
	prefix     string
	phase      atomic.Value        // stores string - current phase name
	stopPhases map[string]struct{} // phases that trigger a graceful shutdown
	startTime  time.Time
	ticker     atomic.Pointer[time.Ticker]
	stopChan   chan struct{}
	done       chan struct{}
	started    atomic.Bool
	countUp    bool
	duration   time.Duration // for countdown mode
}

// NewProgressPrinter creates a progress printer that shows elapsed time.
// stopPhases are phase names that trigger automatic cleanup when set via Callback.
func NewProgressPrinter(prefix string, phase string, stopPhases ...string) *ProgressPrinter {
	p := &ProgressPrinter{
		prefix:     prefix,
		stopPhases: phaseSet(stopPhases),
		countUp:    true,
	}
	p.phase.Store(phase)
	return p
}

// NewCountdownProgressPrinter creates a progress printer that counts down from duration.
func NewCountdownProgressPrinter(prefix string, phase string, duration time.Duration, stopPhases ...string) *ProgressPrinter {
	p := &ProgressPrinter{
		prefix:     prefix,
		stopPhases: phaseSet(stopPhases),
		duration:   duration,
	}
	p.phase.Store(phase)
	return p
}

func phaseSet(phases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(phases))
	for _, p := range phases {
		set[p] = struct{}{}
	}
	return set
}

// Start begins displaying progress updates in a background goroutine.
// Panics if called more than once on the same instance.
func (p *ProgressPrinter) Start() {
	if !p.started.CompareAndSwap(false, true) {
		panic("ProgressPrinter.Start called more than once")
	}

	p.done = make(chan struct{})
	p.stopChan = make(chan struct{})
	p.startTime = time.Now()
	ticker := time.NewTicker(progressUpdateInterval)
	p.ticker.Store(ticker)

	p.startProgressLoop(ticker)
}

func (p *ProgressPrinter) printProgress(phase string, seconds int) {
	if seconds > 0 {
		fmt.Printf("\r%s (%s %ds)   ", p.prefix, phase, seconds)
	} else {
		fmt.Printf("\r%s (%s...)   ", p.prefix, phase)
	}
}

func (p *ProgressPrinter) startProgressLoop(ticker *time.Ticker) {
	initialPhase := p.phase.Load().(string)
	fmt.Printf("\r%s (%s...)   ", p.prefix, initialPhase)

	go func() {
		defer close(p.done)

		for {
			select {
			case <-p.stopChan:
				return
			case <-ticker.C:
				currentPhase := p.phase.Load().(string)
				if _, isStopPhase := p.stopPhases[currentPhase]; isStopPhase {
					return
				}
				elapsed := time.Since(p.startTime)

				var seconds int
				if p.countUp {
					seconds = int(elapsed.Seconds())
				} else {
					remaining := p.duration - elapsed
					if remaining > 0 {
						// Round to the nearest second
						seconds = int(remaining.Seconds() + 0.5)
					}
				}
				p.printProgress(currentPhase, seconds)
			}
		}
	}()
}

// Callback returns a progress callback function that updates the phase.
// If the new phase is a stop phase, Stop() is called automatically.
// Safe to call from multiple goroutines.
func (p *ProgressPrinter) Callback() func(phase string) {
	return func(phase string) {
		p.phase.Store(phase)
		if _, isStopPhase := p.stopPhases[phase]; isStopPhase {
			p.Stop()
		}
	}
}

// Stop stops the progress display and clears the line. Safe to call multiple
// times; only the first call tears down the ticker and goroutine.
func (p *ProgressPrinter) Stop() {
	ticker := p.ticker.Swap(nil)
	if ticker == nil {
		return // Already stopped
	}

	ticker.Stop()
	close(p.stopChan)
	<-p.done

	fmt.Print(clearLineSequence)
}
