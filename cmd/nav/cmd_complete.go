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
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ComponentNav/services/navigator"
)

// completeLimit holds the flag value for the complete command.
var completeLimit int

func newCompleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <partial-name>",
		Short: "Complete a partial component name",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCompleteCommand,
	}
	cmd.Flags().IntVarP(&completeLimit, "limit", "n", 20, "Maximum results")
	return cmd
}

func runCompleteCommand(_ *cobra.Command, args []string) {
	root, err := workspaceRoot()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	query := strings.Join(args, " ")

	svc, err := navigator.NewService(navigator.ServiceConfig{
		Roots:  []string{root},
		Logger: slog.Default(),
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	matches, err := svc.Complete(context.Background(), query, completeLimit)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if len(matches) == 0 {
		fmt.Printf("No components match %q.\n", query)
		return
	}
	for _, m := range matches {
		fmt.Printf("%-40s %-8s %s\n", m.FullName(), m.Kind, m.Path)
	}
}
