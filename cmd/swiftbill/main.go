package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/cli"
	"github.com/andy/swiftbill/internal/config"
	"github.com/andy/swiftbill/internal/crypto"
	"github.com/andy/swiftbill/internal/db"
	"github.com/andy/swiftbill/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env file may supply SWIFTBILL_DB_KEY on machines without a keyring
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		return 1
	}

	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	ephemeral := false
	for _, a := range os.Args[1:] {
		switch a {
		case "-h", "--help", "help":
			skipInit = true
		case "--ephemeral":
			ephemeral = true
		}
	}

	if !skipInit {
		a, err := newApp(ephemeral)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			if errors.Is(err, db.ErrWrongKey) {
				fmt.Fprintf(os.Stderr, "check %s or the %q keychain entry\n", crypto.EnvKey, crypto.ServiceName)
			}
			return 1
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newApp(ephemeral bool) (*app.App, error) {
	if !ephemeral {
		return app.New(context.Background())
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.NewEphemeral(cfg, logging.New(os.Stderr, slog.LevelWarn))
}
