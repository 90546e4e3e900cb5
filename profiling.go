package sqlite

/*
int trace_callback(unsigned int, void *, void *, void *);

typedef int (*trace_callback_t)(unsigned int, void *, void *, void *);
*/
import "C"

import (
	"strings"
	"time"
	"unsafe"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// TraceCallback observes each statement as it starts running.
type TraceCallback interface {
	// Trace receives the statement text with bound parameters expanded.
	Trace(sql string)
}

// TraceFunc adapts a function to TraceCallback.
type TraceFunc func(sql string)

func (f TraceFunc) Trace(sql string) {
	f(sql)
}

// ProfileCallback observes each statement as it finishes.
type ProfileCallback interface {
	// Profile receives the statement text and the time the statement took.
	Profile(sql string, elapsed time.Duration)
}

// ProfileFunc adapts a function to ProfileCallback.
type ProfileFunc func(sql string, elapsed time.Duration)

func (f ProfileFunc) Profile(sql string, elapsed time.Duration) {
	f(sql, elapsed)
}

// Trace installs cb, replacing the previous trace callback. A nil cb removes it.
// A panicking callback is logged and otherwise ignored.
func (c *Conn) Trace(cb TraceCallback) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.callbacks.setTrace(cb)
	return c.updateTrace()
}

// Profile installs cb, replacing the previous profile callback. A nil cb removes it.
// A panicking callback is logged and otherwise ignored.
func (c *Conn) Profile(cb ProfileCallback) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.callbacks.setProfile(cb)
	return c.updateTrace()
}

// updateTrace registers the trace hook for the events that have a callback.
// Trace and profile share the connection's single sqlite3_trace_v2 slot.
func (c *Conn) updateTrace() error {
	trace, profile := c.callbacks.hooks()

	var mask uint
	if trace != nil {
		mask |= m.TraceStmt
	}
	if profile != nil {
		mask |= m.TraceProfile
	}

	var rc int
	if mask == 0 {
		rc = m.TraceV2(c.db, 0, nil, nil)
	} else {
		callbackPtr := unsafe.Pointer(C.trace_callback_t(C.trace_callback))
		rc = m.TraceV2(c.db, mask, callbackPtr, c.callbacks.userData())
	}
	if rc != m.ResultOK {
		return getError(ErrCallback, dbError(c.db, rc, ""))
	}
	return nil
}

//export trace_callback
func trace_callback(event C.uint, arg unsafe.Pointer, p unsafe.Pointer, x unsafe.Pointer) C.int {
	defer func() {
		if r := recover(); r != nil {
			logf("[WARN] trace callback panicked: %v", r)
		}
	}()

	trace, profile := getPinned[*callbackTable](arg).hooks()
	switch uint(event) {
	case m.TraceStmt:
		if trace == nil {
			break
		}
		// Trigger programs are reported as an SQL comment naming the trigger.
		if s := C.GoString((*C.char)(x)); strings.HasPrefix(s, "--") {
			trace.Trace(s)
		} else {
			trace.Trace(m.TraceSQL(p, true))
		}
	case m.TraceProfile:
		if profile != nil {
			elapsed := time.Duration(m.TraceNanos(x))
			if elapsed < 0 {
				elapsed = 0
			}
			profile.Profile(m.TraceSQL(p, false), elapsed)
		}
	}
	return 0
}
