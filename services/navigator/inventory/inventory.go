// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package inventory maintains the discoverable-component index that feeds
// the completion provider.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Default configuration values.
const (
	// DefaultMaxComponents is the default maximum number of entries the
	// inventory can hold.
	DefaultMaxComponents = 100_000

	// searchCheckInterval is how often Search checks for context
	// cancellation.
	searchCheckInterval = 1000
)

// Sentinel errors returned by inventory operations.
var (
	// ErrInvalidComponent indicates a component failed validation.
	ErrInvalidComponent = errors.New("invalid component")

	// ErrDuplicateComponent indicates a component with the same identity
	// already exists.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrMaxComponentsExceeded indicates the inventory is at capacity.
	ErrMaxComponentsExceeded = errors.New("maximum component count exceeded")
)

// Kind identifies which file kind a component entry was discovered from.
type Kind int

const (
	// KindLogic marks an entry discovered from a logic file.
	KindLogic Kind = iota

	// KindTemplate marks an entry discovered from a template file.
	KindTemplate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLogic:
		return "logic"
	case KindTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Component is one discoverable component entry.
//
// Ownership:
//
//	The inventory stores pointers to components but does NOT own them.
//	Components MUST NOT be mutated after being added.
type Component struct {
	// Name is the component name, the final tag identifier.
	Name string `json:"name"`

	// Namespace is the colon-joined namespace, empty for none.
	Namespace string `json:"namespace"`

	// Kind is the file kind the entry was discovered from.
	Kind Kind `json:"kind"`

	// Root is the workspace root the file lives under.
	Root string `json:"root"`

	// Path is the absolute path of the discovered file.
	Path string `json:"path"`
}

// FullName returns the complete tag reference, e.g. "Cards:Stat".
func (c *Component) FullName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + ":" + c.Name
}

// Validate checks the component's invariants.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if c.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	return nil
}

// id is the primary index key: kind, full name and path together.
func (c *Component) id() string {
	return c.Kind.String() + ":" + c.FullName() + ":" + c.Path
}

// Options configures Inventory behavior and limits.
type Options struct {
	// MaxComponents is the maximum number of entries the inventory can
	// hold. Attempting to add more returns ErrMaxComponentsExceeded.
	// Default: 100,000.
	MaxComponents int
}

// Option is a functional option for configuring an Inventory.
type Option func(*Options)

// WithMaxComponents sets the maximum number of entries.
func WithMaxComponents(max int) Option {
	return func(o *Options) {
		o.MaxComponents = max
	}
}

// Stats contains statistics about the inventory.
type Stats struct {
	// TotalComponents is the total number of entries.
	TotalComponents int

	// ByKind maps each Kind to its entry count.
	ByKind map[Kind]int

	// FileCount is the number of distinct files with entries.
	FileCount int
}

// Inventory provides fast lookups of components by several keys.
//
// Thread Safety:
//
//	Inventory is safe for concurrent use. Multiple goroutines can call
//	any combination of methods simultaneously.
type Inventory struct {
	mu sync.RWMutex

	// Primary index: id → Component
	byID map[string]*Component

	// Secondary indexes: key → []*Component
	byFull map[string][]*Component
	byName map[string][]*Component
	byFile map[string][]*Component

	kindCounts map[Kind]int
	options    Options
}

// New creates an empty inventory with the given options.
func New(opts ...Option) *Inventory {
	options := Options{MaxComponents: DefaultMaxComponents}
	for _, opt := range opts {
		opt(&options)
	}
	return &Inventory{
		byID:       make(map[string]*Component),
		byFull:     make(map[string][]*Component),
		byName:     make(map[string][]*Component),
		byFile:     make(map[string][]*Component),
		kindCounts: make(map[Kind]int),
		options:    options,
	}
}

// Add adds a single component to the inventory.
//
// Outputs:
//
//	error - ErrInvalidComponent, ErrDuplicateComponent or
//	ErrMaxComponentsExceeded.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) Add(c *Component) error {
	if c == nil {
		return fmt.Errorf("%w: component is nil", ErrInvalidComponent)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidComponent, err)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if len(inv.byID) >= inv.options.MaxComponents {
		return ErrMaxComponentsExceeded
	}
	if _, exists := inv.byID[c.id()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.id())
	}

	inv.addLocked(c)
	return nil
}

// AddBatch adds many components, skipping invalid entries and duplicates.
//
// Description:
//
//	Batch population from a scanner, where an individual bad entry must
//	not sink the whole scan. Returns the number of entries added.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) AddBatch(components []*Component) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	added := 0
	for _, c := range components {
		if c == nil || c.Validate() != nil {
			continue
		}
		if len(inv.byID) >= inv.options.MaxComponents {
			break
		}
		if _, exists := inv.byID[c.id()]; exists {
			continue
		}
		inv.addLocked(c)
		added++
	}
	return added
}

func (inv *Inventory) addLocked(c *Component) {
	inv.byID[c.id()] = c
	inv.byFull[c.FullName()] = append(inv.byFull[c.FullName()], c)
	inv.byName[c.Name] = append(inv.byName[c.Name], c)
	inv.byFile[c.Path] = append(inv.byFile[c.Path], c)
	inv.kindCounts[c.Kind]++
}

// Lookup returns the entries registered under a full tag reference.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) Lookup(fullName string) []*Component {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return append([]*Component(nil), inv.byFull[fullName]...)
}

// RemoveByFile removes all entries discovered from the given file.
//
// Outputs:
//
//	int - Number of entries removed.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) RemoveByFile(path string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	entries := inv.byFile[path]
	if len(entries) == 0 {
		return 0
	}
	for _, c := range entries {
		delete(inv.byID, c.id())
		inv.byFull[c.FullName()] = removeFromSlice(inv.byFull[c.FullName()], c)
		if len(inv.byFull[c.FullName()]) == 0 {
			delete(inv.byFull, c.FullName())
		}
		inv.byName[c.Name] = removeFromSlice(inv.byName[c.Name], c)
		if len(inv.byName[c.Name]) == 0 {
			delete(inv.byName, c.Name)
		}
		inv.kindCounts[c.Kind]--
	}
	removed := len(entries)
	delete(inv.byFile, path)
	return removed
}

// Stats returns current inventory statistics.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) Stats() Stats {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	byKind := make(map[Kind]int, len(inv.kindCounts))
	for k, v := range inv.kindCounts {
		byKind[k] = v
	}
	return Stats{
		TotalComponents: len(inv.byID),
		ByKind:          byKind,
		FileCount:       len(inv.byFile),
	}
}

// All returns every entry in an unspecified but stable order.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) All() []*Component {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Component, 0, len(inv.byID))
	for _, c := range inv.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName() != out[j].FullName() {
			return out[i].FullName() < out[j].FullName()
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// scored pairs a component with its match score during a search.
type scored struct {
	component *Component
	score     int
}

// Search finds components matching a possibly partial query.
//
// Description:
//
//	Scores every entry's full name with an exact / prefix /
//	segment-boundary / substring / edit-distance cascade and returns the
//	best matches, lowest score first, ties broken by name then path for
//	deterministic completion lists. The search checks for context
//	cancellation periodically.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	query - The partial reference typed so far. Must not be empty.
//	limit - Maximum results. Non-positive means no limit.
//
// Outputs:
//
//	[]*Component - Matching entries, best first.
//	error - Non-nil on invalid input or context cancellation.
//
// Thread Safety: Safe for concurrent use.
func (inv *Inventory) Search(ctx context.Context, query string, limit int) ([]*Component, error) {
	if ctx == nil {
		return nil, fmt.Errorf("inventory: ctx must not be nil")
	}
	if query == "" {
		return nil, fmt.Errorf("inventory: query must not be empty")
	}

	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var matches []scored
	i := 0
	for _, c := range inv.byID {
		if i%searchCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		i++

		score := matchScore(c.FullName(), query)
		if score < 0 {
			continue
		}
		matches = append(matches, scored{component: c, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		if matches[i].component.FullName() != matches[j].component.FullName() {
			return matches[i].component.FullName() < matches[j].component.FullName()
		}
		return matches[i].component.Path < matches[j].component.Path
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*Component, len(matches))
	for i, m := range matches {
		out[i] = m.component
	}
	return out, nil
}

// matchScore scores a full name against a query; lower is better, -1
// means no match.
//
// Base tiers: exact, prefix, segment boundary, substring, edit distance.
// Within a tier, earlier match positions and closer lengths win.
func matchScore(name, query string) int {
	nameLower := strings.ToLower(name)
	queryLower := strings.ToLower(query)

	base := -1
	pos := 0
	switch {
	case nameLower == queryLower:
		base = 0
	case strings.HasPrefix(nameLower, queryLower):
		base = 1
	default:
		if p := segmentBoundaryMatch(nameLower, queryLower); p >= 0 {
			base = 2
			pos = p
		} else if p := strings.Index(nameLower, queryLower); p >= 0 {
			base = 3
			pos = p
		} else {
			// Allow roughly a 30% error rate, at least two edits.
			threshold := max(2, len(queryLower)/3)
			if levenshteinDistance(nameLower, queryLower) <= threshold {
				base = 4
			}
		}
	}
	if base < 0 {
		return -1
	}

	positionPenalty := 0
	if len(name) > 0 && pos > 0 {
		positionPenalty = min(99, (pos*100)/len(name))
	}
	lengthPenalty := min(99, absInt(len(name)-len(query)))

	return base*10000 + positionPenalty*100 + lengthPenalty
}

// segmentBoundaryMatch reports where the query matches at the start of a
// colon-delimited segment, or -1.
func segmentBoundaryMatch(name, query string) int {
	offset := 0
	for _, seg := range strings.Split(name, ":") {
		if strings.HasPrefix(seg, query) {
			return offset
		}
		offset += len(seg) + 1
	}
	return -1
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func removeFromSlice(s []*Component, target *Component) []*Component {
	for i, c := range s {
		if c == target {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
