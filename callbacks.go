package sqlite

import (
	"strings"
	"sync"
	"unsafe"
)

// funcKey identifies a scalar function registration. Function names are
// case-insensitive in SQL.
type funcKey struct {
	name  string
	arity int
}

func newFuncKey(name string, arity int) funcKey {
	return funcKey{name: strings.ToLower(name), arity: arity}
}

// callbackTable holds the callbacks registered on one connection.
// The trampolines read it under the read lock and release the lock before
// calling into user code, so a callback may register other callbacks.
type callbackTable struct {
	mu         sync.RWMutex
	authorizer Authorizer
	trace      TraceCallback
	profile    ProfileCallback
	funcs      map[funcKey]*scalarFunc

	// handle is the pinned user data shared by the authorizer and trace
	// hooks. It is created by the first hook registration and released
	// after the native connection is closed.
	handle unsafe.Pointer
}

func newCallbackTable() *callbackTable {
	return &callbackTable{
		funcs: make(map[funcKey]*scalarFunc),
	}
}

// userData returns the pinned handle to t, creating it if needed.
func (t *callbackTable) userData() unsafe.Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle == nil {
		t.handle = pin(t)
	}
	return t.handle
}

func (t *callbackTable) getAuthorizer() Authorizer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.authorizer
}

func (t *callbackTable) setAuthorizer(a Authorizer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authorizer = a
}

func (t *callbackTable) hooks() (TraceCallback, ProfileCallback) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trace, t.profile
}

func (t *callbackTable) setTrace(cb TraceCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trace = cb
}

func (t *callbackTable) setProfile(cb ProfileCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profile = cb
}

func (t *callbackTable) addFunc(f *scalarFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs[f.key] = f
}

// removeFunc drops f unless its key was taken over by a newer registration.
func (t *callbackTable) removeFunc(f *scalarFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.funcs[f.key] == f {
		delete(t.funcs, f.key)
	}
}

func (t *callbackTable) funcCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.funcs)
}

// clear forgets every callback and releases the shared handle. It must only
// run once the native connection no longer references the handle.
func (t *callbackTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authorizer = nil
	t.trace = nil
	t.profile = nil
	clear(t.funcs)
	if t.handle != nil {
		release(t.handle)
		t.handle = nil
	}
}
