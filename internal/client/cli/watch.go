package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/sync"
)

const defaultWatchInterval = 5 * time.Second

// runWatch keeps the process alive so that connectivity changes trigger
// background delivery, and reports every change of state it sees.
func (c *Cli) runWatch(ctx context.Context, args []string) error {
	fs := c.newFlagSet("watch")
	interval := fs.Duration("interval", defaultWatchInterval, "How often to report queue state")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 0 {
		return fmt.Errorf("unexpected arguments. Usage: keepsake watch [--interval D]")
	}
	if *interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", *interval)
	}

	if _, err := c.currentSession(ctx); err != nil {
		return err
	}

	c.io.Println("Watching for connectivity changes. Press Ctrl+C to stop.")

	var (
		last     sync.PendingCounts
		wasOn    bool
		reported bool
	)
	report := func() {
		online := c.engine.Online()
		pending, err := c.engine.PendingCounts(ctx)
		if err != nil {
			c.io.Printf("⚠️  Failed to count pending items: %v\n", err)
			return
		}
		if reported && online == wasOn && pending == last {
			return
		}
		reported, wasOn, last = true, online, pending

		state := "offline"
		if online {
			state = "online"
		}
		c.io.Printf("%s  %-7s uploads=%d actions=%d dead=%d\n",
			c.now().Format(time.TimeOnly), state,
			pending.Uploads, pending.Actions, pending.DeadUploads+pending.DeadActions)
	}

	report()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.io.Println("Stopped.")
			return nil
		case <-ticker.C:
			report()
		}
	}
}
