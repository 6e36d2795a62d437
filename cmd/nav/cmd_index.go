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
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ComponentNav/services/navigator"
)

// indexList holds the flag value for the index command.
var indexList bool

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan the workspace and build the component inventory",
		Run:   runIndexCommand,
	}
	cmd.Flags().BoolVar(&indexList, "list", false, "List every indexed component")
	return cmd
}

func runIndexCommand(_ *cobra.Command, _ []string) {
	root, err := workspaceRoot()
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

	ctx := context.Background()
	start := time.Now()
	total, err := svc.Index(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Indexed %d component(s) in %s (%s)\n", total, root, time.Since(start).Round(time.Millisecond))

	if !indexList {
		return
	}
	components, err := svc.Components(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].FullName() != components[j].FullName() {
			return components[i].FullName() < components[j].FullName()
		}
		return components[i].Path < components[j].Path
	})
	for _, comp := range components {
		fmt.Printf("%-40s %-8s %s\n", comp.FullName(), comp.Kind, comp.Path)
	}
}
