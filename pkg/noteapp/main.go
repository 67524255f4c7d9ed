// Package noteapp implements the notedown service: a small REST API for
// personal notes with email/password authentication.
//
// Two concerns make up the service. The auth side registers users,
// verifies credentials, and issues signed bearer tokens; the note side is
// owner-scoped CRUD guarded by those tokens. All durable state lives in a
// pluggable store (PostgreSQL by default, SurrealDB or in-memory by
// flag); the process itself holds no session state, so any number of
// replicas can serve the same database.
//
// The entry point is [Main], which parses arguments, builds the [App],
// and dispatches the selected [Command]. Tests call the same path with an
// in-memory store instead of building the binary.
package noteapp

import (
	"context"
	"fmt"
	"os"
)

// Main is the application entry point: parse arguments, construct the
// app, run the selected command, close the store. The context cancels the
// running command; cmd/notedown wires it to SIGINT/SIGTERM so a shutdown
// signal drains the server and releases the store connection before exit.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return err
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
