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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ComponentNav/services/navigator"
)

// fmtWrite holds the flag value for the fmt command.
var fmtWrite bool

func newFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Reformat component tag attributes in a document",
		Long: `Fmt reformats every component tag in a document: short tags on one
line, longer tags with one attribute per line. Prints the result to
stdout unless --write is given. Use "-" as the file to read from stdin.`,
		Args: cobra.ExactArgs(1),
		Run:  runFmtCommand,
	}
	cmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite the file in place")
	return cmd
}

func runFmtCommand(_ *cobra.Command, args []string) {
	root, err := workspaceRoot()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	path := args[0]
	text, err := readInput(path)
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

	edits, formatted, err := svc.FormatDocument(context.Background(), text)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if fmtWrite {
		if path == "-" {
			log.Fatal("Error: --write needs a file argument, not stdin")
		}
		if len(edits) == 0 {
			return
		}
		info, err := os.Stat(path)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("Reformatted %d tag(s) in %s\n", len(edits), path)
		return
	}

	fmt.Print(formatted)
}
