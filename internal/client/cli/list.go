package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/sync"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := c.newFlagSet("list")
	orderBy := fs.String("order", "", "Order by field (id, created_at, updated_at or a document field)")
	desc := fs.Bool("desc", false, "Descending order")
	limit := fs.Int("limit", 0, "Maximum number of documents")
	maxAge := fs.Duration("max-age", 0, "Maximum age of a cached answer (0 uses the configured default)")
	check := fs.Bool("check", false, "Re-check connectivity before reading")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("missing collection. Usage: keepsake list <collection> [--order FIELD] [--desc] [--limit N]")
	}
	key := positional[0]

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	var opts []sync.ReadOption
	if *orderBy != "" {
		opts = append(opts, sync.WithOrderBy(*orderBy, *desc))
	}
	if *limit > 0 {
		opts = append(opts, sync.WithLimit(*limit))
	}
	if *maxAge > 0 {
		opts = append(opts, sync.WithMaxAge(*maxAge))
	}
	if *check {
		opts = append(opts, sync.WithForceOnlineCheck())
	}

	result := c.engine.GetCollection(ctx, session.Scope, key, opts...)

	c.io.Printf("=== %s ===\n", result.Collection)
	c.io.Println()

	switch {
	case result.Source == sync.SourceRemote:
		c.io.Printf("Source: server (%s)\n", result.FetchedAt.Format(time.RFC3339))
	case !result.FetchedAt.IsZero():
		c.io.Printf("Source: cache, fetched %s\n", result.FetchedAt.Format(time.RFC3339))
	default:
		c.io.Println("Source: cache (nothing cached)")
	}
	if result.RemoteErr != nil {
		if errors.Is(result.RemoteErr, sync.ErrOffline) {
			c.io.Println("Offline: showing cached data.")
		} else {
			c.io.Printf("Server unavailable: %v\n", result.RemoteErr)
		}
	}
	c.io.Println()

	if len(result.Data) == 0 {
		c.io.Println("No documents found.")
		return nil
	}

	c.io.Printf("Found %d document(s):\n", len(result.Data))
	c.io.Println()

	for i, record := range result.Data {
		fields, err := json.Marshal(record.Fields)
		if err != nil {
			fields = []byte(fmt.Sprintf("<unprintable: %v>", err))
		}
		c.io.Printf("%d. %s\n", i+1, record.ID)
		if !record.UpdatedAt.IsZero() {
			c.io.Printf("   Updated: %s\n", record.UpdatedAt.Format(time.RFC3339))
		}
		c.io.Printf("   Fields:  %s\n", fields)
	}

	return nil
}
