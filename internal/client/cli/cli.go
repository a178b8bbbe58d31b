package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/keepsake/internal/client/auth"
	"github.com/iudanet/keepsake/internal/client/cache"
	"github.com/iudanet/keepsake/internal/client/iocli"
	"github.com/iudanet/keepsake/internal/client/storage"
	"github.com/iudanet/keepsake/internal/client/sync"
	"github.com/iudanet/keepsake/internal/config"
	"github.com/iudanet/keepsake/internal/models"
)

//go:generate moq -out engine_mock.go . Engine
//go:generate moq -out session_mock.go . Session

// Engine is the part of the sync orchestrator the commands drive
type Engine interface {
	GetCollection(ctx context.Context, scope string, key string, opts ...sync.ReadOption) *sync.CollectionResult
	EnqueueUpload(ctx context.Context, op models.UploadOp) (string, error)
	EnqueueAction(ctx context.Context, op models.ActionOp) (string, error)
	ForceSync(ctx context.Context) sync.SyncResult
	PendingCounts(ctx context.Context) (sync.PendingCounts, error)
	CacheInfo(ctx context.Context) (cache.Info, error)
	ClearCache(ctx context.Context, key string) error
	LastSync(ctx context.Context) (time.Time, error)
	Online() bool
	Items(ctx context.Context, queueName string) ([]sync.ItemInfo, error)
	Discard(ctx context.Context, queueName string, id string) error
	Requeue(ctx context.Context, queueName string, id string) error
}

// Session хранит bearer токен пользователя
type Session interface {
	Login(ctx context.Context, token string) (*auth.Session, error)
	Session(ctx context.Context) (*auth.Session, error)
	Logout(ctx context.Context) error
}

// ErrNotAuthenticated is returned by commands that need the user scope
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'keepsake login' first")

type Cli struct {
	io      iocli.IO
	engine  Engine
	session Session
	now     func() time.Time
	getenv  func(string) string
}

func New(io iocli.IO, engine Engine, session Session) *Cli {
	return &Cli{
		io:      io,
		engine:  engine,
		session: session,
		now:     time.Now,
		getenv:  os.Getenv,
	}
}

// currentSession returns the stored session or ErrNotAuthenticated.
// An expired token is still returned: queued writes are kept and will be
// delivered once a fresh token is stored.
func (c *Cli) currentSession(ctx context.Context) (*auth.Session, error) {
	session, err := c.session.Session(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(c.now()) {
		c.io.Println("⚠️  Token has expired. Writes are queued until you login again.")
	}
	return session, nil
}

// readToken picks the bearer token with priority:
// 1. Command-line argument
// 2. File given by --token-file
// 3. Environment variable KEEPSAKE_TOKEN
// 4. Interactive prompt (fallback)
func (c *Cli) readToken(fromArgs, fromFile string) (string, error) {
	if fromArgs != "" {
		return fromArgs, nil
	}

	if fromFile != "" {
		content, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token := strings.TrimSpace(string(content))
		if token == "" {
			return "", fmt.Errorf("token file is empty")
		}
		return token, nil
	}

	if envToken := c.getenv(config.EnvToken); envToken != "" {
		return envToken, nil
	}

	token, err := c.io.ReadSecret("Token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}
	return token, nil
}

// PrintUsage prints the command reference
func PrintUsage(out iocli.IO) {
	out.Printf("%s", usage)
}

const usage = `Keepsake Client

Usage:
  keepsake [OPTIONS] COMMAND [ARGS]

Options:
  --version          Show version information
  --config PATH      Config file (default: ~/.keepsake/client.toml)
  --server URL       Server URL (overrides config)
  --db PATH          Path to local database (overrides config)
  --offline          Do not contact the server; reads come from the cache, writes are queued
  --log-level LEVEL  debug, info, warn or error

Commands:
  init                                Write the effective configuration to --config
  login [TOKEN] [--token-file PATH]   Store the bearer token (falls back to KEEPSAKE_TOKEN, then a prompt)
  logout                              Remove the stored token
  status                              Show session, connectivity and queue state
  list <collection> [--order F] [--desc] [--limit N] [--max-age D] [--check]
                                      List documents of a collection under your scope
  upload <file> [--folder ID] [--collection NAME] [--type MIME]
                                      Queue a photo or video upload
  folder create <name>                Queue a new folder
  folder rename <id> <name>           Queue a folder rename
  folder delete <id>                  Queue a folder deletion
  comment <collection> <id> <text>    Queue a comment on a document
  react <collection> <id> <emoji>     Queue your reaction on a document
  set <collection> <id> <field> <value>
                                      Queue a single field update (value is JSON or a string)
  queue [uploads|actions]             Show queued items
  discard <queue> <id>                Drop a queued item
  requeue <queue> <id>                Retry a failed or dead item
  sync                                Deliver queued writes now
  watch [--interval D]                Stay running and deliver queued writes whenever the server is reachable
  cache-info                          Show cached collections
  cache-clear [collection]            Drop one cached collection, or all of them

Examples:
  export KEEPSAKE_TOKEN='eyJhbGciOi...'
  keepsake login
  keepsake upload ~/Pictures/beach.jpg --folder 2f1c9a
  keepsake --offline comment memories 7b0e1d 'what a day'
  keepsake list memories --order created_at --desc --limit 20
  keepsake sync
`

// parseFlags parses fs and returns the positional arguments. Flags may
// appear before, between or after positionals.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (c *Cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.io)
	return fs
}
