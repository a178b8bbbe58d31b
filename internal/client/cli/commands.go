package cli

import (
	"context"
	"fmt"
)

// Run executes one command. Unknown commands print the usage.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx, args)
	case "upload":
		return c.runUpload(ctx, args)
	case "folder":
		return c.runFolder(ctx, args)
	case "comment":
		return c.runComment(ctx, args)
	case "react":
		return c.runReact(ctx, args)
	case "set":
		return c.runSet(ctx, args)
	case "queue":
		return c.runQueue(ctx, args)
	case "discard":
		return c.runDiscard(ctx, args)
	case "requeue":
		return c.runRequeue(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "watch":
		return c.runWatch(ctx, args)
	case "cache-info":
		return c.runCacheInfo(ctx)
	case "cache-clear":
		return c.runCacheClear(ctx, args)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}
