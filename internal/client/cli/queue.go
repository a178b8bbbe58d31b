package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/queue"
	"github.com/iudanet/keepsake/internal/client/sync"
)

func (c *Cli) runQueue(ctx context.Context, args []string) error {
	names := []string{sync.QueueUploads, sync.QueueActions}
	switch len(args) {
	case 0:
	case 1:
		names = args[:1]
	default:
		return fmt.Errorf("too many arguments. Usage: keepsake queue [uploads|actions]")
	}

	for i, name := range names {
		items, err := c.engine.Items(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", name, err)
		}

		if i > 0 {
			c.io.Println()
		}
		c.io.Printf("=== %s (%d) ===\n", name, len(items))
		if len(items) == 0 {
			c.io.Println("Queue is empty.")
			continue
		}

		for _, item := range items {
			c.io.Printf("%s  %-13s %-9s attempts=%d  queued %s\n",
				item.ID, item.Kind, item.Status, item.Attempts, item.EnqueuedAt.Format(time.RFC3339))
			if item.TargetCollection != "" {
				c.io.Printf("    target: %s/%s\n", item.TargetCollection, item.TargetID)
			}
			if item.Corrupt {
				c.io.Println("    payload cannot be decoded")
			}
			if item.LastError != "" {
				c.io.Printf("    last error: %s\n", item.LastError)
			}
		}
	}

	return nil
}

func (c *Cli) runDiscard(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("missing arguments. Usage: keepsake discard <uploads|actions> <id>")
	}

	if err := c.engine.Discard(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, queue.ErrItemNotFound) {
			return fmt.Errorf("item %s not found in %s", args[1], args[0])
		}
		return fmt.Errorf("failed to discard item: %w", err)
	}

	c.io.Printf("✓ Item %s discarded from %s\n", args[1], args[0])
	return nil
}

func (c *Cli) runRequeue(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("missing arguments. Usage: keepsake requeue <uploads|actions> <id>")
	}

	if err := c.engine.Requeue(ctx, args[0], args[1]); err != nil {
		switch {
		case errors.Is(err, queue.ErrItemNotFound):
			return fmt.Errorf("item %s not found in %s", args[1], args[0])
		case errors.Is(err, queue.ErrInvalidTransition):
			return fmt.Errorf("item %s is neither failed nor dead", args[1])
		}
		return fmt.Errorf("failed to requeue item: %w", err)
	}

	c.io.Printf("✓ Item %s returned to pending in %s\n", args[1], args[0])
	c.io.Println("Run 'keepsake sync' to deliver it now.")
	return nil
}
