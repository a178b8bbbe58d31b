package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := c.newFlagSet("login")
	tokenFile := fs.String("token-file", "", "Path to file containing the token")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("too many arguments. Usage: keepsake login [TOKEN] [--token-file PATH]")
	}

	var fromArgs string
	if len(positional) == 1 {
		fromArgs = positional[0]
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	token, err := c.readToken(fromArgs, *tokenFile)
	if err != nil {
		return err
	}

	session, err := c.session.Login(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Scope: %s\n", session.Scope)
	if session.ExpiresAt.IsZero() {
		c.io.Println("Token expires: never")
	} else {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}
