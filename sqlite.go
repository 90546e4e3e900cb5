// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlite is a thin binding over the SQLite C API.
//
// It exposes connections (Conn), prepared statements (Stmt) and the
// extension callbacks of the engine (scalar functions, authorizer, trace
// and profile hooks) while owning every native handle: a handle is released
// exactly once, and any use after release fails with ErrClosedConn or
// ErrClosedStmt instead of touching freed memory.
//
// # Threading
//
// The package starts no goroutines and takes no lock around native calls.
// A Conn and its statements must be used by one goroutine at a time, unless
// the connection was opened with OPEN_FULLMUTEX, in which case the engine
// serializes access. Callbacks run on whatever thread the engine invokes them
// from and must be safe for concurrent use when the connection is shared.
//
// # Locations
//
// Open accepts a filesystem path, Memory, TempFile or a "file:" URI. The query
// parameters foreign_keys, enable_triggers, recursive_triggers, query_only,
// journal_mode and synchronous of a URI are applied after the engine opened
// the database and before Open returns.
package sqlite

import (
	"sync"

	"github.com/go-pkgz/lgr"

	m "github.com/marcboeker/go-sqlite/mapping"
)

const (
	// Memory opens an anonymous in-memory database.
	Memory = ":memory:"
	// TempFile opens an anonymous on-disk database, deleted when the connection is closed.
	TempFile = ""
)

var (
	initOnce sync.Once
	initErr  error
)

// initialize runs sqlite3_initialize exactly once per process.
func initialize() error {
	initOnce.Do(func() {
		if rc := m.Initialize(); rc != m.ResultOK {
			initErr = getError(errInit, newError(rc, m.Errstr(rc), ""))
		}
	})
	return initErr
}

// LibVersion returns the version string of the linked SQLite library, e.g. "3.45.1".
func LibVersion() string {
	return m.Libversion()
}

// LibVersionNumber returns the linked library version as X*1000000 + Y*1000 + Z.
func LibVersionNumber() int {
	return m.LibversionNumber()
}

// Threadsafe reports the threading mode the library was compiled with:
// 0 single-thread, 1 serialized, 2 multi-thread.
func Threadsafe() int {
	return m.Threadsafe()
}

// CompileOptionUsed reports whether the library was compiled with the given
// option, with or without its SQLITE_ prefix.
func CompileOptionUsed(name string) bool {
	return m.CompileoptionUsed(name)
}

var (
	logMu  sync.RWMutex
	logger lgr.L = lgr.NoOp
)

// SetLogger sets the logger used for diagnostics the package cannot return
// as errors, e.g. a panicking trace callback. A nil logger silences them.
func SetLogger(l lgr.L) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = lgr.NoOp
	}
	logger = l
}

func logf(format string, args ...any) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	l.Logf(format, args...)
}
