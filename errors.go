package sqlite

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// Error carries the details of a failed native call.
type Error struct {
	// Code is the primary result code.
	Code ErrorCode
	// ExtendedCode refines Code, e.g. CONSTRAINT_UNIQUE. It equals Code if
	// the engine reported no refinement.
	ExtendedCode ErrorCode
	// Msg is the engine's error message.
	Msg string
	// SQL is the statement text, for statement-level failures.
	SQL string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.ExtendedCode != e.Code {
		fmt.Fprintf(&b, " (%d/%d)", e.Code, e.ExtendedCode)
	} else {
		fmt.Fprintf(&b, " (%d)", e.Code)
	}
	if e.SQL != "" {
		fmt.Fprintf(&b, " in %q", e.SQL)
	}
	return b.String()
}

// Is matches an ErrorCode target against the primary and the extended code.
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	if !ok {
		return false
	}
	return code == e.Code || code == e.ExtendedCode
}

// newError translates a return code when no connection is available.
func newError(rc int, msg string, sql string) *Error {
	code := ErrorCode(rc)
	if msg == "" {
		msg = code.String()
	}
	return &Error{Code: code.Primary(), ExtendedCode: code, Msg: msg, SQL: sql}
}

// dbError translates a return code using the connection's error state.
func dbError(db m.DB, rc int, sql string) *Error {
	code := ErrorCode(rc)
	ext := ErrorCode(m.ExtendedErrcode(db))
	if ext.Primary() != code.Primary() {
		// The connection's error state belongs to another call.
		return newError(rc, "", sql)
	}
	return &Error{Code: code.Primary(), ExtendedCode: ext, Msg: m.Errmsg(db), SQL: sql}
}

func wrapperError(msg string, sql string) *Error {
	return &Error{Code: WRAPPER_SPECIFIC, ExtendedCode: WRAPPER_SPECIFIC, Msg: msg, SQL: sql}
}

func getError(kind error, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", sqliteErrMsg, kind)
	}
	return fmt.Errorf("%s: %w: %w", sqliteErrMsg, kind, err)
}

func columnIndexError(idx int, count int) error {
	return wrapperError(fmt.Sprintf("%s: %d not in [0, %d)", columnErrMsg, idx, count), "")
}

func paramIndexError(idx int, count int) error {
	return wrapperError(fmt.Sprintf("%s: %d not in [1, %d]", paramErrMsg, idx, count), "")
}

func unsupportedTypeError(name string) error {
	return wrapperError(fmt.Sprintf("%s: %s", unsupportedTypeErrMsg, name), "")
}

const (
	sqliteErrMsg          = "sqlite"
	columnErrMsg          = "column index"
	paramErrMsg           = "parameter index"
	unsupportedTypeErrMsg = "unsupported data type"
	unknownTypeErrMsg     = "unknown type"
	wrapperSpecificMsg    = "wrapper specific error"
	noRowErrMsg           = "statement produced no row"
	noStmtErrMsg          = "SQL contains no statement"
	multiStmtErrMsg       = "SQL contains more than one statement"
	noMetadataErrMsg      = "column metadata is not compiled in"
	noRowStateErrMsg      = "statement is not positioned on a row"
	noFuncNameErrMsg      = "function name is empty"
)

var (
	// ErrOpen wraps failures to open a connection.
	ErrOpen = errors.New("could not open database")
	// ErrPrepare wraps failures to compile SQL text.
	ErrPrepare = errors.New("could not prepare statement")
	// ErrExec wraps failures while stepping or executing statements.
	ErrExec = errors.New("could not execute statement")
	// ErrBind wraps failures to bind a parameter.
	ErrBind = errors.New("could not bind parameter")
	// ErrConfig wraps failures to apply connection configuration.
	ErrConfig = errors.New("could not configure connection")
	// ErrCallback wraps failures to register or run a callback.
	ErrCallback = errors.New("callback failed")
	// ErrClosedConn is returned by every Conn operation after Close.
	ErrClosedConn = errors.New("connection already closed")
	// ErrClosedStmt is returned by every Stmt operation after Close.
	ErrClosedStmt = errors.New("statement already closed")

	errInit      = errors.New("could not initialize SQLite library")
	errClose     = errors.New("could not close connection")
	errOpenStmts = errors.New("connection closed with unfinalized statements")
)
