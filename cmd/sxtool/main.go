// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sxtool inspects and edits scene documents from the command
// line: print a scene's node tree, apply a YAML edit script through
// one undoable batch, or write a fresh empty scene.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "sxtool",
		Short:         "inspect and edit scene documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return setupFromConfig(cfg)
	}
	root.AddCommand(newShowCmd(), newApplyCmd(), newNewCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sxtool:", err)
		os.Exit(1)
	}
}

func setupFromConfig(cfg *config) error {
	var lvl slog.Level
	switch cfg.LogLevel {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
