package sqlite

import (
	m "github.com/marcboeker/go-sqlite/mapping"
)

// ErrorCode is a primary or extended SQLite result code. It implements
// error, so errors.Is(err, CONSTRAINT) matches any *Error whose primary or
// extended code is CONSTRAINT.
type ErrorCode int

// Primary result codes.
const (
	OK         = ErrorCode(m.ResultOK)
	ERROR      = ErrorCode(m.ResultError)
	INTERNAL   = ErrorCode(m.ResultInternal)
	PERM       = ErrorCode(m.ResultPerm)
	ABORT      = ErrorCode(m.ResultAbort)
	BUSY       = ErrorCode(m.ResultBusy)
	LOCKED     = ErrorCode(m.ResultLocked)
	NOMEM      = ErrorCode(m.ResultNoMem)
	READONLY   = ErrorCode(m.ResultReadOnly)
	INTERRUPT  = ErrorCode(m.ResultInterrupt)
	IOERR      = ErrorCode(m.ResultIOErr)
	CORRUPT    = ErrorCode(m.ResultCorrupt)
	NOTFOUND   = ErrorCode(m.ResultNotFound)
	FULL       = ErrorCode(m.ResultFull)
	CANTOPEN   = ErrorCode(m.ResultCantOpen)
	PROTOCOL   = ErrorCode(m.ResultProtocol)
	EMPTY      = ErrorCode(m.ResultEmpty)
	SCHEMA     = ErrorCode(m.ResultSchema)
	TOOBIG     = ErrorCode(m.ResultTooBig)
	CONSTRAINT = ErrorCode(m.ResultConstraint)
	MISMATCH   = ErrorCode(m.ResultMismatch)
	MISUSE     = ErrorCode(m.ResultMisuse)
	NOLFS      = ErrorCode(m.ResultNoLFS)
	AUTH       = ErrorCode(m.ResultAuth)
	FORMAT     = ErrorCode(m.ResultFormat)
	RANGE      = ErrorCode(m.ResultRange)
	NOTADB     = ErrorCode(m.ResultNotADB)
	NOTICE     = ErrorCode(m.ResultNotice)
	WARNING    = ErrorCode(m.ResultWarning)
	ROW        = ErrorCode(m.ResultRow)
	DONE       = ErrorCode(m.ResultDone)
)

// Extended result codes.
const (
	BUSY_RECOVERY           = ErrorCode(m.ResultBusyRecovery)
	BUSY_SNAPSHOT           = ErrorCode(m.ResultBusySnapshot)
	LOCKED_SHAREDCACHE      = ErrorCode(m.ResultLockedSharedCache)
	READONLY_RECOVERY       = ErrorCode(m.ResultReadOnlyRecovery)
	READONLY_CANTLOCK       = ErrorCode(m.ResultReadOnlyCantLock)
	READONLY_ROLLBACK       = ErrorCode(m.ResultReadOnlyRollback)
	READONLY_DBMOVED        = ErrorCode(m.ResultReadOnlyDBMoved)
	IOERR_READ              = ErrorCode(m.ResultIOErrRead)
	IOERR_SHORT_READ        = ErrorCode(m.ResultIOErrShortRead)
	IOERR_WRITE             = ErrorCode(m.ResultIOErrWrite)
	IOERR_FSYNC             = ErrorCode(m.ResultIOErrFsync)
	IOERR_TRUNCATE          = ErrorCode(m.ResultIOErrTruncate)
	IOERR_DELETE            = ErrorCode(m.ResultIOErrDelete)
	IOERR_NOMEM             = ErrorCode(m.ResultIOErrNoMem)
	IOERR_LOCK              = ErrorCode(m.ResultIOErrLock)
	CANTOPEN_ISDIR          = ErrorCode(m.ResultCantOpenIsDir)
	CANTOPEN_FULLPATH       = ErrorCode(m.ResultCantOpenFullPath)
	CORRUPT_VTAB            = ErrorCode(m.ResultCorruptVTab)
	ABORT_ROLLBACK          = ErrorCode(m.ResultAbortRollback)
	CONSTRAINT_CHECK        = ErrorCode(m.ResultConstraintCheck)
	CONSTRAINT_COMMITHOOK   = ErrorCode(m.ResultConstraintCommit)
	CONSTRAINT_FOREIGNKEY   = ErrorCode(m.ResultConstraintFK)
	CONSTRAINT_FUNCTION     = ErrorCode(m.ResultConstraintFunc)
	CONSTRAINT_NOTNULL      = ErrorCode(m.ResultConstraintNotNull)
	CONSTRAINT_PRIMARYKEY   = ErrorCode(m.ResultConstraintPK)
	CONSTRAINT_TRIGGER      = ErrorCode(m.ResultConstraintTrigger)
	CONSTRAINT_UNIQUE       = ErrorCode(m.ResultConstraintUnique)
	CONSTRAINT_VTAB         = ErrorCode(m.ResultConstraintVTab)
	CONSTRAINT_ROWID        = ErrorCode(m.ResultConstraintRowID)
)

// WRAPPER_SPECIFIC marks conditions detected by this package for which the
// engine has no result code, e.g. a statement that produced no row where one
// was required.
const WRAPPER_SPECIFIC = ErrorCode(-1)

// Primary returns the primary code of an extended code.
func (c ErrorCode) Primary() ErrorCode {
	if c < 0 {
		return c
	}
	return c & 0xff
}

// IsExtended reports whether c refines a primary code.
func (c ErrorCode) IsExtended() bool {
	return c > 0xff
}

func (c ErrorCode) String() string {
	if c == WRAPPER_SPECIFIC {
		return wrapperSpecificMsg
	}
	return m.Errstr(int(c))
}

func (c ErrorCode) Error() string {
	return c.String()
}
