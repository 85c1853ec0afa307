// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const lockPrefix = "sessionlock:"

// BadgerGuard implements Guard with conditional writes on a shared
// BadgerDB, so a pool of processes serving the same sessions agree on
// lock ownership.
//
// Acquisition is a single serializable transaction: read the key, fail
// with ErrLocked if present, otherwise write the token with a TTL. The
// TTL bounds how long a crashed holder can block a session; a healthy
// command always releases explicitly well inside it.
//
// Thread Safety:
//
//	BadgerGuard is safe for concurrent use.
type BadgerGuard struct {
	db  *badger.DB
	ttl time.Duration
}

// DefaultLockTTL bounds lock lifetime when a holder crashes without
// releasing.
const DefaultLockTTL = 2 * time.Minute

// NewBadgerGuard creates a guard over the given database. A ttl of zero
// uses DefaultLockTTL.
func NewBadgerGuard(db *badger.DB, ttl time.Duration) *BadgerGuard {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &BadgerGuard{db: db, ttl: ttl}
}

// TryAcquire implements Guard.
func (g *BadgerGuard) TryAcquire(_ context.Context, sessionID string) (Token, error) {
	key := []byte(lockPrefix + sessionID)
	id := uuid.NewString()

	err := g.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrLocked
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		entry := badger.NewEntry(key, []byte(id)).WithTTL(g.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		if errors.Is(err, ErrLocked) || errors.Is(err, badger.ErrConflict) {
			return Token{}, fmt.Errorf("%w: session %s", ErrLocked, sessionID)
		}
		return Token{}, fmt.Errorf("acquire session lock: %w", err)
	}
	return Token{SessionID: sessionID, ID: id}, nil
}

// Release implements Guard. Only the exact holding token may release.
func (g *BadgerGuard) Release(_ context.Context, token Token) error {
	key := []byte(lockPrefix + token.SessionID)

	err := g.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		var holder string
		if err := item.Value(func(val []byte) error {
			holder = string(val)
			return nil
		}); err != nil {
			return err
		}
		if holder != token.ID {
			return ErrInvalidToken
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return fmt.Errorf("%w: session %s", ErrInvalidToken, token.SessionID)
		}
		return fmt.Errorf("release session lock: %w", err)
	}
	return nil
}
