// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/ComponentNav/services/navigator/inventory"
)

// SnapshotSchemaVersion is the serialization schema version.
const SnapshotSchemaVersion = "1"

// BadgerDB key prefixes for inventory snapshots.
const (
	keyPrefixSnap   = "nav:inv:"
	keySuffixData   = ":data"
	keySuffixMeta   = ":meta"
	keySuffixLatest = ":latest"
)

// ErrSnapshotNotFound indicates no snapshot exists for a project.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotMetadata describes one persisted inventory snapshot.
type SnapshotMetadata struct {
	// SnapshotID uniquely identifies this snapshot.
	// Derived from SHA256(Root + CreatedAtMilli)[:16].
	SnapshotID string `json:"snapshot_id"`

	// Root is the workspace root the inventory was scanned from.
	Root string `json:"root"`

	// ProjectHash is SHA256(Root)[:16] for key grouping.
	ProjectHash string `json:"project_hash"`

	// ConfigHash is the configuration hash the inventory was built with.
	ConfigHash string `json:"config_hash"`

	// CreatedAtMilli is when the snapshot was saved (Unix milliseconds UTC).
	CreatedAtMilli int64 `json:"created_at_milli"`

	// ComponentCount is the number of entries in the snapshot.
	ComponentCount int `json:"component_count"`

	// SchemaVersion is the serialization schema version.
	SchemaVersion string `json:"schema_version"`

	// CompressedSize is the gzip-compressed payload size in bytes.
	CompressedSize int64 `json:"compressed_size"`
}

// SnapshotStore persists component inventories in BadgerDB.
//
// Description:
//
//	Stores each inventory as gzip-compressed JSON plus metadata, with a
//	"latest" pointer per project. A warm start loads the latest snapshot
//	while a fresh scan runs in the background.
//
// Thread Safety:
//
//	Safe for concurrent use. BadgerDB handles its own concurrency control.
type SnapshotStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewSnapshotStore creates a SnapshotStore on an opened BadgerDB.
//
// Inputs:
//
//	db - An opened BadgerDB instance. Must not be nil. The caller owns
//	the DB lifecycle.
//	logger - Logger for diagnostics. Must not be nil.
//
// Outputs:
//
//	*SnapshotStore - The configured store.
//	error - Non-nil if db or logger is nil.
func NewSnapshotStore(db *badger.DB, logger *slog.Logger) (*SnapshotStore, error) {
	if db == nil {
		return nil, fmt.Errorf("badger db must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &SnapshotStore{db: db, logger: logger}, nil
}

// Save persists an inventory snapshot for a workspace root.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	root - The workspace root the components came from. Must not be empty.
//	configHash - The configuration hash the inventory was built with.
//	components - The inventory entries to persist.
//
// Outputs:
//
//	*SnapshotMetadata - Metadata about the saved snapshot.
//	error - Non-nil if serialization or storage fails.
//
// Key Schema:
//
//	nav:inv:{projectHash}:{snapshotID}:data → gzip(JSON([]Component))
//	nav:inv:{projectHash}:{snapshotID}:meta → JSON(SnapshotMetadata)
//	nav:inv:{projectHash}:latest            → snapshotID
func (s *SnapshotStore) Save(ctx context.Context, root, configHash string, components []*inventory.Component) (*SnapshotMetadata, error) {
	if ctx == nil {
		return nil, fmt.Errorf("ctx must not be nil")
	}
	if root == "" {
		return nil, fmt.Errorf("root must not be empty")
	}

	jsonData, err := json.Marshal(components)
	if err != nil {
		return nil, fmt.Errorf("marshaling inventory: %w", err)
	}

	var compressed bytes.Buffer
	gw, err := gzip.NewWriterLevel(&compressed, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := gw.Write(jsonData); err != nil {
		return nil, fmt.Errorf("compressing inventory: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}
	compressedData := compressed.Bytes()

	now := time.Now().UnixMilli()
	projectHash := hashString(root)[:16]
	snapshotID := hashString(fmt.Sprintf("%s:%d", root, now))[:16]

	meta := &SnapshotMetadata{
		SnapshotID:     snapshotID,
		Root:           root,
		ProjectHash:    projectHash,
		ConfigHash:     configHash,
		CreatedAtMilli: now,
		ComponentCount: len(components),
		SchemaVersion:  SnapshotSchemaVersion,
		CompressedSize: int64(len(compressedData)),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	dataKey := keyPrefixSnap + projectHash + ":" + snapshotID + keySuffixData
	metaKey := keyPrefixSnap + projectHash + ":" + snapshotID + keySuffixMeta
	latestKey := keyPrefixSnap + projectHash + keySuffixLatest

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataKey), compressedData); err != nil {
			return fmt.Errorf("storing data: %w", err)
		}
		if err := txn.Set([]byte(metaKey), metaJSON); err != nil {
			return fmt.Errorf("storing metadata: %w", err)
		}
		if err := txn.Set([]byte(latestKey), []byte(snapshotID)); err != nil {
			return fmt.Errorf("updating latest pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("writing snapshot to badger: %w", err)
	}

	s.logger.Info("inventory snapshot saved",
		slog.String("snapshot_id", snapshotID),
		slog.String("root", root),
		slog.Int("components", meta.ComponentCount),
		slog.Int64("compressed_size", meta.CompressedSize),
	)
	return meta, nil
}

// LoadLatest loads the most recent snapshot for a workspace root.
//
// Outputs:
//
//	[]*inventory.Component - The persisted entries.
//	*SnapshotMetadata - The snapshot metadata.
//	error - ErrSnapshotNotFound if the project has no snapshot, or a
//	wrapped storage/decoding error.
func (s *SnapshotStore) LoadLatest(ctx context.Context, root string) ([]*inventory.Component, *SnapshotMetadata, error) {
	if ctx == nil {
		return nil, nil, fmt.Errorf("ctx must not be nil")
	}
	if root == "" {
		return nil, nil, fmt.Errorf("root must not be empty")
	}

	projectHash := hashString(root)[:16]
	latestKey := keyPrefixSnap + projectHash + keySuffixLatest

	var snapshotID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			snapshotID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil, ErrSnapshotNotFound
		}
		return nil, nil, fmt.Errorf("reading latest pointer: %w", err)
	}

	dataKey := keyPrefixSnap + projectHash + ":" + snapshotID + keySuffixData
	metaKey := keyPrefixSnap + projectHash + ":" + snapshotID + keySuffixMeta

	var compressedData []byte
	var meta SnapshotMetadata
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataKey))
		if err != nil {
			return fmt.Errorf("reading data: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			compressedData = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(metaKey))
		if err != nil {
			return fmt.Errorf("reading metadata: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot %s: %w", snapshotID, err)
	}

	gr, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	jsonData, err := io.ReadAll(gr)
	if err != nil {
		return nil, nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	if err := gr.Close(); err != nil {
		return nil, nil, fmt.Errorf("closing gzip reader: %w", err)
	}

	var components []*inventory.Component
	if err := json.Unmarshal(jsonData, &components); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling inventory: %w", err)
	}

	s.logger.Info("inventory snapshot loaded",
		slog.String("snapshot_id", meta.SnapshotID),
		slog.String("root", root),
		slog.Int("components", len(components)),
	)
	return components, &meta, nil
}

// hashString returns the hex SHA256 of a string.
func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
