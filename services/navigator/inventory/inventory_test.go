// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package inventory

import (
	"context"
	"errors"
	"testing"
)

func comp(ns, name, path string, kind Kind) *Component {
	return &Component{Name: name, Namespace: ns, Kind: kind, Root: "/ws", Path: path}
}

func TestInventory_AddAndLookup(t *testing.T) {
	inv := New()
	c := comp("Cards", "Stat", "/ws/templates/components/Cards/Stat.html.twig", KindTemplate)
	if err := inv.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := inv.Lookup("Cards:Stat")
	if len(got) != 1 || got[0] != c {
		t.Errorf("Lookup returned %v", got)
	}
	if got := inv.Lookup("Cards:Other"); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestInventory_AddRejectsInvalid(t *testing.T) {
	inv := New()
	if err := inv.Add(nil); !errors.Is(err, ErrInvalidComponent) {
		t.Errorf("expected ErrInvalidComponent for nil, got %v", err)
	}
	if err := inv.Add(&Component{Namespace: "Cards"}); !errors.Is(err, ErrInvalidComponent) {
		t.Errorf("expected ErrInvalidComponent for empty name, got %v", err)
	}
}

func TestInventory_AddRejectsDuplicate(t *testing.T) {
	inv := New()
	c := comp("", "Button", "/ws/src/Button.php", KindLogic)
	if err := inv.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := inv.Add(comp("", "Button", "/ws/src/Button.php", KindLogic)); !errors.Is(err, ErrDuplicateComponent) {
		t.Errorf("expected ErrDuplicateComponent, got %v", err)
	}
}

func TestInventory_CapacityLimit(t *testing.T) {
	inv := New(WithMaxComponents(1))
	if err := inv.Add(comp("", "A", "/ws/a.php", KindLogic)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := inv.Add(comp("", "B", "/ws/b.php", KindLogic)); !errors.Is(err, ErrMaxComponentsExceeded) {
		t.Errorf("expected ErrMaxComponentsExceeded, got %v", err)
	}
}

func TestInventory_AddBatchSkipsBadEntries(t *testing.T) {
	inv := New()
	added := inv.AddBatch([]*Component{
		comp("Cards", "Stat", "/ws/a.twig", KindTemplate),
		nil,
		{Namespace: "NoName"},
		comp("Cards", "Stat", "/ws/a.twig", KindTemplate), // duplicate
		comp("Cards", "Graph", "/ws/b.twig", KindTemplate),
	})
	if added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}
	if stats := inv.Stats(); stats.TotalComponents != 2 {
		t.Errorf("expected 2 total, got %d", stats.TotalComponents)
	}
}

func TestInventory_RemoveByFile(t *testing.T) {
	inv := New()
	c := comp("Cards", "Stat", "/ws/a.twig", KindTemplate)
	if err := inv.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if removed := inv.RemoveByFile("/ws/a.twig"); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if got := inv.Lookup("Cards:Stat"); len(got) != 0 {
		t.Errorf("expected entry gone, got %v", got)
	}
	if removed := inv.RemoveByFile("/ws/a.twig"); removed != 0 {
		t.Errorf("second removal must be a no-op, got %d", removed)
	}
}

func TestInventory_Stats(t *testing.T) {
	inv := New()
	inv.AddBatch([]*Component{
		comp("Cards", "Stat", "/ws/a.twig", KindTemplate),
		comp("Cards", "Stat", "/ws/a.php", KindLogic),
		comp("Cards", "Graph", "/ws/b.twig", KindTemplate),
	})
	stats := inv.Stats()
	if stats.TotalComponents != 3 {
		t.Errorf("expected 3 total, got %d", stats.TotalComponents)
	}
	if stats.ByKind[KindTemplate] != 2 || stats.ByKind[KindLogic] != 1 {
		t.Errorf("unexpected kind counts %v", stats.ByKind)
	}
	if stats.FileCount != 3 {
		t.Errorf("expected 3 files, got %d", stats.FileCount)
	}
}

func TestSearch_RankingCascade(t *testing.T) {
	inv := New()
	inv.AddBatch([]*Component{
		comp("", "Stat", "/ws/1.twig", KindTemplate),           // exact
		comp("", "StatCard", "/ws/2.twig", KindTemplate),       // prefix
		comp("Cards", "Stat", "/ws/3.twig", KindTemplate),      // segment boundary
		comp("", "SuperStatistic", "/ws/4.twig", KindTemplate), // substring
	})

	got, err := inv.Search(context.Background(), "Stat", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(got))
	}
	if got[0].FullName() != "Stat" {
		t.Errorf("expected exact match first, got %q", got[0].FullName())
	}
	if got[1].FullName() != "StatCard" {
		t.Errorf("expected prefix match second, got %q", got[1].FullName())
	}
	if got[2].FullName() != "Cards:Stat" {
		t.Errorf("expected segment-boundary match third, got %q", got[2].FullName())
	}
	if got[3].FullName() != "SuperStatistic" {
		t.Errorf("expected substring match last, got %q", got[3].FullName())
	}
}

func TestSearch_FuzzyTolerance(t *testing.T) {
	inv := New()
	if err := inv.Add(comp("", "Button", "/ws/1.php", KindLogic)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := inv.Search(context.Background(), "Buttom", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Button" {
		t.Errorf("expected fuzzy match on Button, got %v", got)
	}
}

func TestSearch_Limit(t *testing.T) {
	inv := New()
	inv.AddBatch([]*Component{
		comp("", "CardA", "/ws/1.twig", KindTemplate),
		comp("", "CardB", "/ws/2.twig", KindTemplate),
		comp("", "CardC", "/ws/3.twig", KindTemplate),
	})

	got, err := inv.Search(context.Background(), "Card", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit respected, got %d", len(got))
	}
}

func TestSearch_DeterministicOrder(t *testing.T) {
	inv := New()
	inv.AddBatch([]*Component{
		comp("", "CardB", "/ws/b.twig", KindTemplate),
		comp("", "CardA", "/ws/a.twig", KindTemplate),
	})

	for range 5 {
		got, err := inv.Search(context.Background(), "Card", 0)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if got[0].Name != "CardA" || got[1].Name != "CardB" {
			t.Fatalf("expected name-ordered ties, got %v", got)
		}
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	inv := New()
	if _, err := inv.Search(context.Background(), "", 0); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := inv.Search(nil, "x", 0); err == nil { //nolint:staticcheck
		t.Error("expected error for nil context")
	}
}

func TestSearch_CancelledContext(t *testing.T) {
	inv := New()
	if err := inv.Add(comp("", "Button", "/ws/1.php", KindLogic)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := inv.Search(ctx, "Button", 0); err == nil {
		t.Error("expected cancellation error")
	}
}
