// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lock enforces at-most-one in-flight command per session.
//
// Acquisition is fail-fast: if another command holds the session's lock,
// TryAcquire returns ErrLocked immediately, with no queueing or waiting. The
// caller retries with backoff or surfaces the conflict. Query paths never
// touch the guard; they read persisted state directly, so read latency is
// independent of write contention.
//
// The contract is Lock[sessionID] -> Token with strictly non-blocking
// acquire. The backing store is an implementation choice: MemoryGuard for
// a single process, BadgerGuard (conditional writes on the shared
// embedded store) when more than one process can serve the same session.
package lock

import (
	"context"
	"errors"
)

// Sentinel errors for the lock package.
var (
	// ErrLocked indicates another command is in flight for the session.
	// Returned immediately, never after a wait.
	ErrLocked = errors.New("session command already in flight")

	// ErrInvalidToken indicates a release with a token that does not
	// hold the lock (already released, expired, or forged).
	ErrInvalidToken = errors.New("lock token does not hold the lock")
)

// Token is proof of a successful acquisition. Release requires the exact
// token, so a stale holder can never release a lock it lost.
type Token struct {
	// SessionID is the locked session.
	SessionID string

	// ID uniquely identifies this acquisition.
	ID string
}

// Guard is the per-session concurrency guard.
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use.
type Guard interface {
	// TryAcquire attempts a non-blocking acquisition of the session's
	// lock. Returns ErrLocked immediately when the lock is held.
	TryAcquire(ctx context.Context, sessionID string) (Token, error)

	// Release releases a previously acquired lock. Callers use scoped
	// acquisition (defer) so release runs on every exit path.
	Release(ctx context.Context, token Token) error
}
