package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner executes a function on a fixed interval, with one immediate run at
// startup.
type Runner struct {
	name     string
	interval time.Duration
	run      func(context.Context)

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new Runner
func New(name string, interval time.Duration, run func(context.Context)) *Runner {
	return &Runner{
		name:     name,
		interval: interval,
		run:      run,
		stopChan: make(chan struct{}),
	}
}

// Start begins the timer loop
func (r *Runner) Start(ctx context.Context) {
	slog.Info("Starting task", "task", r.name, "interval", r.interval)

	r.wg.Add(1)
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial run
	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Task stopped (context cancelled)", "task", r.name)
			return
		case <-r.stopChan:
			slog.Info("Task stopped", "task", r.name)
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// Stop signals the runner to stop and waits for the loop to exit
func (r *Runner) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}
