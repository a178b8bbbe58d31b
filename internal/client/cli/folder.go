package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/keepsake/internal/models"
)

const folderUsage = "Usage: keepsake folder create <name> | rename <id> <name> | delete <id>"

func (c *Cli) runFolder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing folder command. %s", folderUsage)
	}

	op := models.FolderOp{}
	switch sub, rest := args[0], args[1:]; sub {
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("missing folder name. %s", folderUsage)
		}
		op.Action = models.WriteCreate
		op.FolderID = uuid.NewString()
		op.Name = rest[0]
	case "rename":
		if len(rest) != 2 {
			return fmt.Errorf("missing folder id or name. %s", folderUsage)
		}
		op.Action = models.WriteUpdate
		op.FolderID = rest[0]
		op.Name = rest[1]
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("missing folder id. %s", folderUsage)
		}
		op.Action = models.WriteDelete
		op.FolderID = rest[0]
	default:
		return fmt.Errorf("unknown folder command: %s. %s", sub, folderUsage)
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}
	op.Scope = session.Scope

	id, err := c.engine.EnqueueUpload(ctx, op)
	if err != nil {
		return fmt.Errorf("failed to queue folder %s: %w", op.Action, err)
	}

	c.io.Printf("✓ Folder %s queued\n", op.Action)
	c.io.Printf("Folder:   %s\n", op.FolderID)
	c.io.Printf("Queue id: %s\n", id)

	return nil
}
