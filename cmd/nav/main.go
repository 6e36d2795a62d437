// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command nav is the ComponentNav command line client.
//
// Usage:
//
//	nav resolve --file page.html.twig --line 3 --column 12
//	nav complete Card
//	nav fmt page.html.twig
//	nav index
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// navRoot and navVerbose hold persistent flag values for all commands.
var (
	navRoot    string
	navVerbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nav",
		Short: "Navigate between component tags and their files",
		Long: `nav maps namespaced component tags (e.g. <twig:Cards:Stat>) to their
logic and template files, completes partial component names, and
reformats tag attributes.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if navVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&navRoot, "root", "", "Workspace root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&navVerbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newCompleteCommand())
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newIndexCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// workspaceRoot resolves the --root flag, defaulting to the current
// directory.
func workspaceRoot() (string, error) {
	if navRoot != "" {
		return navRoot, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determining working directory: %w", err)
	}
	return cwd, nil
}

// readInput reads a file argument, or stdin when the argument is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
