package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/keepsake/internal/models"
)

func (c *Cli) runComment(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("missing arguments. Usage: keepsake comment <collection> <id> <text>")
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	op := models.AddComment{
		TargetCollection: models.UserCollection(session.Scope, args[0]),
		TargetID:         args[1],
		CommentID:        uuid.NewString(),
		Author:           session.Scope,
		Text:             strings.Join(args[2:], " "),
		CreatedAt:        c.now().UTC(),
	}

	return c.enqueueAction(ctx, op, "Comment")
}

func (c *Cli) runReact(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("missing arguments. Usage: keepsake react <collection> <id> <emoji>")
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	op := models.AddReaction{
		TargetCollection: models.UserCollection(session.Scope, args[0]),
		TargetID:         args[1],
		Author:           session.Scope,
		Emoji:            args[2],
	}

	return c.enqueueAction(ctx, op, "Reaction")
}

func (c *Cli) runSet(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("missing arguments. Usage: keepsake set <collection> <id> <field> <value>")
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	op := models.UpdateField{
		TargetCollection: models.UserCollection(session.Scope, args[0]),
		TargetID:         args[1],
		Field:            args[2],
		Value:            parseValue(args[3]),
	}

	return c.enqueueAction(ctx, op, "Field update")
}

func (c *Cli) enqueueAction(ctx context.Context, op models.ActionOp, what string) error {
	id, err := c.engine.EnqueueAction(ctx, op)
	if err != nil {
		return fmt.Errorf("failed to queue %s: %w", strings.ToLower(what), err)
	}

	collection, target := op.Target()
	c.io.Printf("✓ %s queued\n", what)
	c.io.Printf("Target:   %s/%s\n", collection, target)
	c.io.Printf("Queue id: %s\n", id)
	return nil
}

// parseValue reads a JSON literal (number, bool, null, object, array or
// quoted string); anything else is taken as a plain string
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
