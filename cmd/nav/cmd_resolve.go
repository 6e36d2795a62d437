// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ComponentNav/services/navigator"
)

// resolveFile, resolveLine, resolveColumn and resolveJSON hold flag
// values for the resolve command.
var (
	resolveFile   string
	resolveLine   int
	resolveColumn int
	resolveJSON   bool
)

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the component reference at a cursor position",
		Long: `Resolve reads a document, finds the component tag at the given
line and column, and prints the logic and template files it maps to.
Use "-" as the file to read from stdin.`,
		Run: runResolveCommand,
	}
	cmd.Flags().StringVarP(&resolveFile, "file", "f", "", "Document to read (required, \"-\" for stdin)")
	cmd.Flags().IntVarP(&resolveLine, "line", "l", 0, "Zero-based cursor line")
	cmd.Flags().IntVarP(&resolveColumn, "column", "c", 0, "Zero-based cursor column")
	cmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the resolution as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runResolveCommand(_ *cobra.Command, _ []string) {
	root, err := workspaceRoot()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	text, err := readInput(resolveFile)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	svc, err := navigator.NewService(navigator.ServiceConfig{
		Roots:  []string{root},
		Logger: slog.Default(),
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	resolution, err := svc.ResolveAtCursor(context.Background(), text, resolveLine, resolveColumn)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if resolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(navigator.ResolveResponse{
			Found:      resolution != nil,
			Resolution: resolution,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	if resolution == nil {
		fmt.Println("No component reference at that position, or no files found.")
		return
	}

	fmt.Printf("Component: %s\n", resolution.Reference.FullName())
	if len(resolution.LogicFiles) > 0 {
		fmt.Println("Logic files:")
		for _, f := range resolution.LogicFiles {
			fmt.Printf("  %s\n", f.AbsPath)
		}
	}
	if len(resolution.TemplateFiles) > 0 {
		fmt.Println("Template files:")
		for _, f := range resolution.TemplateFiles {
			fmt.Printf("  %s\n", f.AbsPath)
		}
	}
}
