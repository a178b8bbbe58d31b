package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/keepsake/internal/models"
)

func (c *Cli) runCacheInfo(ctx context.Context) error {
	info, err := c.engine.CacheInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect cache: %w", err)
	}
	if err := cacheInfoTmpl.Execute(c.io, info); err != nil {
		return fmt.Errorf("failed to render cache info: %w", err)
	}
	return nil
}

func (c *Cli) runCacheClear(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		if err := c.engine.ClearCache(ctx, ""); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		c.io.Println("✓ Cache cleared")
		return nil
	case 1:
	default:
		return fmt.Errorf("too many arguments. Usage: keepsake cache-clear [collection]")
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	key := models.UserCollection(session.Scope, args[0])
	if err := c.engine.ClearCache(ctx, key); err != nil {
		return fmt.Errorf("failed to clear cached %s: %w", key, err)
	}
	c.io.Printf("✓ Cached %s cleared\n", key)
	return nil
}
