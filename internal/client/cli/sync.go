package cli

import (
	"context"
	"time"

	"github.com/iudanet/keepsake/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	if _, err := c.currentSession(ctx); err != nil {
		return err
	}

	result := c.engine.ForceSync(ctx)
	if result.Offline {
		c.io.Println("Server is unreachable. Queued writes will be delivered when it is back.")
		return nil
	}

	c.printQueueResult("Uploads", result.Uploads)
	c.printQueueResult("Actions", result.Actions)
	c.io.Println()
	c.io.Printf("Took %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	failed := result.Uploads.Failed + result.Actions.Failed
	dead := result.Uploads.Dead + result.Actions.Dead
	switch {
	case dead > 0:
		c.io.Printf("⚠️  %d item(s) were rejected. Inspect them with 'keepsake queue'.\n", dead)
	case failed > 0:
		c.io.Printf("%d item(s) failed and will be retried on the next sync.\n", failed)
	default:
		c.io.Println("✓ Synchronization completed successfully!")
	}

	return nil
}

func (c *Cli) printQueueResult(title string, r sync.QueueResult) {
	if r.Skipped {
		c.io.Printf("%s: skipped, another sync is running\n", title)
		return
	}
	c.io.Printf("%s: %d processed, %d delivered, %d failed, %d dead\n",
		title, r.Processed, r.Succeeded, r.Failed, r.Dead)
}
