// Package main is the entry point for the weld site builder.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/joho/godotenv"
	"go.trai.ch/weld/cmd/weld/commands"
	"go.trai.ch/weld/internal/app"
	_ "go.trai.ch/weld/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Environment from .env, if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// 2. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := components.App.Close(); err != nil {
			components.Logger.Warn("failed to release resources: " + err.Error())
		}
	}()

	// 3. Interface - CLI
	cli := commands.New(components.App)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
