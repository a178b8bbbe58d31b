package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/auth"
	"github.com/iudanet/keepsake/internal/client/storage"
	"github.com/iudanet/keepsake/internal/client/sync"
)

type statusView struct {
	LastSync time.Time
	Session  *auth.Session
	Pending  *sync.PendingCounts
	Online   bool
	Expired  bool
}

func (c *Cli) runStatus(ctx context.Context) error {
	view := statusView{Online: c.engine.Online()}

	session, err := c.session.Session(ctx)
	switch {
	case err == nil:
		view.Session = session
		view.Expired = session.Expired(c.now())
	case !errors.Is(err, storage.ErrTokenNotFound):
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	lastSync, err := c.engine.LastSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last sync time: %w", err)
	}
	view.LastSync = lastSync

	pending, err := c.engine.PendingCounts(ctx)
	if err != nil {
		// Не прерываем выполнение: остальной статус полезен и без очередей
		c.io.Printf("Warning: failed to get pending counts: %v\n", err)
	} else {
		view.Pending = &pending
	}

	if err := statusTmpl.Execute(c.io, view); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}

	switch {
	case view.Session == nil:
		c.io.Println()
		c.io.Println("Run 'keepsake login' to authenticate.")
	case view.Pending != nil && view.Pending.Uploads+view.Pending.Actions > 0:
		c.io.Println()
		c.io.Println("Run 'keepsake sync' to deliver queued writes.")
	case view.Pending != nil:
		c.io.Println()
		c.io.Println("✓ All writes delivered")
	}

	return nil
}
