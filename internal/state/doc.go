// Package state provides auth-session store backends.
package state

import "github.com/user/sessionboard/internal/types"

// Compile-time interface compliance checks.
var _ types.AuthSessionStore = (*FileStore)(nil)
var _ types.AuthSessionStore = (*SQLiteStore)(nil)
var _ types.AuthSessionStore = (*MemoryStore)(nil)
