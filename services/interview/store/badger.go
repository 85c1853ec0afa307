// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// Key prefixes for the badger keyspace.
const (
	prefixSession  = "session:"
	prefixJobIndex = "job:"
	prefixPolicy   = "policy:"
	prefixSnapshot = "snapshot:"
	prefixBank     = "bank:"
)

// BadgerConfig holds configuration for the embedded BadgerDB store.
type BadgerConfig struct {
	// Path is the directory for database files. Required unless InMemory.
	Path string

	// InMemory enables in-memory mode with no disk persistence.
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, internal
	// logging is disabled.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Zero disables GC.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum garbage ratio before GC rewrites a
	// value log file.
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns production defaults: synchronous writes,
// five-minute GC interval, 0.5 discard ratio.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// badgerSlogAdapter adapts slog.Logger to BadgerDB's Logger interface.
type badgerSlogAdapter struct {
	logger *slog.Logger
}

func (l *badgerSlogAdapter) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerRepository is a Repository backed by an embedded BadgerDB.
//
// Layout: one JSON value per aggregate under a typed key prefix, plus a
// job index (job:<jobID>:<sessionID>) so ListSessionsByJob avoids a full
// session scan.
//
// Thread Safety:
//
//	Safe for concurrent use; BadgerDB transactions provide isolation.
type BadgerRepository struct {
	db     *badger.DB
	logger *slog.Logger

	gcStop chan struct{}
	gcDone chan struct{}
}

// OpenBadger opens (creating if needed) a BadgerRepository with the given
// configuration and starts the GC loop when an interval is configured.
// The caller must Close() the repository when done.
func OpenBadger(cfg BadgerConfig) (*BadgerRepository, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerSlogAdapter{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	r := &BadgerRepository{db: db, logger: cfg.Logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		r.gcStop = make(chan struct{})
		r.gcDone = make(chan struct{})
		go r.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return r, nil
}

// OpenBadgerInMemory opens an in-memory repository for testing.
func OpenBadgerInMemory() (*BadgerRepository, error) {
	return OpenBadger(BadgerConfig{InMemory: true})
}

// DB exposes the underlying database so collaborators sharing the store
// (the session lock guard) can run their own transactions against it.
func (r *BadgerRepository) DB() *badger.DB {
	return r.db
}

// Close stops the GC loop and closes the database.
func (r *BadgerRepository) Close() error {
	if r.gcStop != nil {
		close(r.gcStop)
		<-r.gcDone
	}
	return r.db.Close()
}

func (r *BadgerRepository) runGC(interval time.Duration, ratio float64) {
	defer close(r.gcDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.gcStop:
			return
		case <-ticker.C:
			err := r.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && r.logger != nil {
				// ErrNoRewrite just means no GC was needed.
				r.logger.Warn("badger value log GC error", "error", err)
			}
		}
	}
}

func (r *BadgerRepository) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (r *BadgerRepository) get(key string, v any) error {
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// SaveSession persists the record and maintains the job index.
func (r *BadgerRepository) SaveSession(_ context.Context, rec *datatypes.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", rec.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(prefixSession+rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixJobIndex+rec.JobID+":"+rec.ID), []byte(rec.ID))
	})
}

// GetSession loads a session by id.
func (r *BadgerRepository) GetSession(_ context.Context, id string) (*datatypes.SessionRecord, error) {
	var rec datatypes.SessionRecord
	if err := r.get(prefixSession+id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSessionsByJob walks the job index and loads each session.
func (r *BadgerRepository) ListSessionsByJob(_ context.Context, jobID string) ([]*datatypes.SessionRecord, error) {
	var out []*datatypes.SessionRecord
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(prefixJobIndex + jobID + ":")
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sessionID string
			if err := it.Item().Value(func(val []byte) error {
				sessionID = string(val)
				return nil
			}); err != nil {
				return err
			}
			item, err := txn.Get([]byte(prefixSession + sessionID))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			var rec datatypes.SessionRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SavePolicy persists a job policy.
func (r *BadgerRepository) SavePolicy(_ context.Context, p *datatypes.JobPolicy) error {
	return r.put(prefixPolicy+p.ID, p)
}

// GetPolicy loads a job policy by id.
func (r *BadgerRepository) GetPolicy(_ context.Context, id string) (*datatypes.JobPolicy, error) {
	var p datatypes.JobPolicy
	if err := r.get(prefixPolicy+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveSnapshot persists the publish-time snapshot for a policy.
func (r *BadgerRepository) SaveSnapshot(_ context.Context, snap *datatypes.JobPolicySnapshot) error {
	return r.put(prefixSnapshot+snap.PolicyID, snap)
}

// GetSnapshot loads the snapshot for a policy id.
func (r *BadgerRepository) GetSnapshot(_ context.Context, policyID string) (*datatypes.JobPolicySnapshot, error) {
	var snap datatypes.JobPolicySnapshot
	if err := r.get(prefixSnapshot+policyID, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveBankEntry persists a question-bank entry.
func (r *BadgerRepository) SaveBankEntry(_ context.Context, e *datatypes.QuestionBankEntry) error {
	return r.put(prefixBank+e.ID, e)
}

// GetBankEntry loads an entry by id regardless of tombstone status.
func (r *BadgerRepository) GetBankEntry(_ context.Context, id string) (*datatypes.QuestionBankEntry, error) {
	var e datatypes.QuestionBankEntry
	if err := r.get(prefixBank+id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListBankEntries returns every entry, tombstoned ones included.
func (r *BadgerRepository) ListBankEntries(_ context.Context) ([]*datatypes.QuestionBankEntry, error) {
	var out []*datatypes.QuestionBankEntry
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(prefixBank)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e datatypes.QuestionBankEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			cp := e
			out = append(out, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDeleteBankEntry tombstones an entry inside one transaction.
func (r *BadgerRepository) SoftDeleteBankEntry(_ context.Context, id string, at time.Time) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixBank + id))
		if err != nil {
			return err
		}
		var e datatypes.QuestionBankEntry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		}); err != nil {
			return err
		}
		e.Status = datatypes.BankEntryDeleted
		e.DeletedAt = &at
		data, err := json.Marshal(&e)
		if err != nil {
			return err
		}
		return txn.Set([]byte(prefixBank+id), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
