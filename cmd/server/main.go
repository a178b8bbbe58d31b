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
	"time"

	"github.com/iudanet/keepsake/internal/config"
	"github.com/iudanet/keepsake/internal/server"
	"github.com/iudanet/keepsake/internal/server/handlers"
	"github.com/iudanet/keepsake/internal/server/storage/sqlite"
)

// EnvJWTSecret overrides jwt_secret from the config file
const EnvJWTSecret = "KEEPSAKE_JWT_SECRET"

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to server TOML config")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	issueToken := flag.String("issue-token", "", "Print an access token for `scope` and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of tokens printed by -issue-token (0 = no expiry)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath, *addr, *dbPath, *issueToken, *tokenTTL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr, dbPath, issueToken string, tokenTTL time.Duration) error {
	cfg, err := config.LoadServer(configPath, false)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if secret := os.Getenv(EnvJWTSecret); secret != "" {
		cfg.JWTSecret = secret
	}
	if cfg.JWTSecret == "" {
		return errors.New("jwt_secret is not set: use the config file or " + EnvJWTSecret)
	}

	jwtConfig := handlers.JWTConfig{Secret: []byte(cfg.JWTSecret), TokenTTL: tokenTTL}

	if issueToken != "" {
		token, expiresAt, err := handlers.GenerateAccessToken(jwtConfig, issueToken)
		if err != nil {
			return err
		}
		fmt.Println(token)
		if !expiresAt.IsZero() {
			fmt.Fprintf(os.Stderr, "Token for %s expires at %s\n", issueToken, expiresAt.Format(time.RFC3339))
		}
		return nil
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	logger.Info("Keepsake server starting",
		"version", Version, "addr", cfg.Addr, "db", cfg.DBPath)

	return server.New(cfg, jwtConfig, store, logger, Version).Run(ctx)
}

func printVersion() {
	fmt.Printf("Keepsake Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
