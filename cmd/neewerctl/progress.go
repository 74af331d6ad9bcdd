package main

import (
	"fmt"
	"sync"
	"time"
)

const progressUpdateInterval = 100 * time.Millisecond

// countdownPrinter shows a single-line countdown while a scan runs. It is
// single-use: Start once, Stop once.
type countdownPrinter struct {
	prefix   string
	duration time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newCountdownPrinter(prefix string, duration time.Duration) *countdownPrinter {
	return &countdownPrinter{
		prefix:   prefix,
		duration: duration,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins printing in a background goroutine.
func (p *countdownPrinter) Start() {
	start := time.Now()
	fmt.Printf("\r%s...   ", p.prefix)

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(progressUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				remaining := p.duration - time.Since(start)
				if remaining < 0 {
					remaining = 0
				}
				seconds := int(remaining.Seconds() + 0.5)
				fmt.Printf("\r%s (%ds)   ", p.prefix, seconds)
			}
		}
	}()
}

// Stop clears the progress line. Safe to call more than once.
func (p *countdownPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		<-p.done
		fmt.Print("\r\033[K")
	})
}
