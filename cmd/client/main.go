package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/keepsake/internal/client/api"
	"github.com/iudanet/keepsake/internal/client/auth"
	"github.com/iudanet/keepsake/internal/client/cache"
	"github.com/iudanet/keepsake/internal/client/cli"
	"github.com/iudanet/keepsake/internal/client/connectivity"
	"github.com/iudanet/keepsake/internal/client/iocli"
	"github.com/iudanet/keepsake/internal/client/storage/boltdb"
	"github.com/iudanet/keepsake/internal/client/sync"
	"github.com/iudanet/keepsake/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type options struct {
	configPath string
	serverURL  string
	dbPath     string
	logLevel   string
	offline    bool
	// configSet is true when --config was given explicitly; a missing
	// default file is not an error
	configSet bool
}

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	var opts options
	flag.StringVar(&opts.configPath, "config", config.DefaultClientPath(), "Path to client TOML config")
	flag.StringVar(&opts.serverURL, "server", "", "Server URL (overrides config)")
	flag.StringVar(&opts.dbPath, "db", "", "Path to local database (overrides config)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flag.BoolVar(&opts.offline, "offline", false, "Work offline: read from the cache and queue every write")
	flag.Usage = func() { cli.PrintUsage(iocli.NewStdio()) }
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			opts.configSet = true
		}
	})

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(iocli.NewStdio())
		os.Exit(1)
	}

	if err := run(opts, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(opts options) (config.Client, error) {
	cfg, err := config.LoadClient(opts.configPath, !opts.configSet)
	if err != nil {
		return cfg, err
	}
	if opts.serverURL != "" {
		cfg.ServerURL = opts.serverURL
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func run(opts options, command string, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if command == "init" {
		return runInit(opts.configPath, cfg)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	// Логи идут в stderr, чтобы не смешиваться с выводом команд
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	sessions := auth.NewStore(boltStorage)

	apiClient := api.NewClient(cfg.ServerURL, logger,
		api.WithTokenFunc(tokenSource(sessions)),
		api.WithMaxRetries(cfg.Sync.MaxRetries),
		api.WithTimeout(cfg.Sync.RequestTimeout),
	)

	var (
		primitive connectivity.Primitive
		probe     *connectivity.Probe
	)
	if opts.offline {
		primitive = connectivity.NewManual(false)
	} else {
		probe = connectivity.NewProbe(apiClient, cfg.Sync.ProbeInterval, logger)
		primitive = probe
	}
	monitor := connectivity.NewMonitor(primitive, connectivity.NewState(), logger)
	monitor.Start(ctx)
	defer monitor.Stop()

	cacheStore, err := cache.New(boltStorage, cfg.Cache.HotEntries, logger, cache.WithDefaultMaxAge(cfg.Cache.MaxAge))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	orchestrator := sync.NewOrchestrator(boltStorage, boltStorage, apiClient, cacheStore, monitor, logger,
		sync.WithMaxAttempts(cfg.Sync.MaxAttempts),
		sync.WithDrainOnStart(cfg.Sync.DrainOnStart && drainsOnStart(command)),
		sync.WithDrainOnEnqueue(cfg.Sync.DrainOnEnqueue),
	)
	if err := orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	// Stop дожидается фоновой доставки, начатой командой
	defer orchestrator.Stop()

	// Опрос сервера останавливается раньше оркестратора, чтобы не запускать новых проходов
	if probe != nil {
		stopProbe := probe.Start(ctx)
		defer stopProbe()
	}

	return cli.New(iocli.NewStdio(), orchestrator, sessions).Run(ctx, command, args)
}

// tokenSource prefers the stored session and falls back to KEEPSAKE_TOKEN
func tokenSource(sessions *auth.Store) api.TokenFunc {
	return func(ctx context.Context) (string, error) {
		token, err := sessions.Token(ctx)
		if err != nil || token != "" {
			return token, err
		}
		return os.Getenv(config.EnvToken), nil
	}
}

// drainsOnStart reports whether a command starts with a background drain.
// Read-only commands return immediately; sync drains in the foreground.
func drainsOnStart(command string) bool {
	switch command {
	case "status", "queue", "cache-info", "logout", "sync":
		return false
	default:
		return true
	}
}

func runInit(path string, cfg config.Client) error {
	if path == "" {
		return errors.New("config path is unknown: pass --config")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("✓ Config written to %s\n", path)
	return nil
}

func printVersion() {
	fmt.Printf("Keepsake Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
