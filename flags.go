package sqlite

import (
	m "github.com/marcboeker/go-sqlite/mapping"
)

// OpenFlag is a bit set of sqlite3_open_v2 flags.
type OpenFlag int

const (
	OPEN_READONLY     = OpenFlag(m.OpenReadOnly)
	OPEN_READWRITE    = OpenFlag(m.OpenReadWrite)
	OPEN_CREATE       = OpenFlag(m.OpenCreate)
	OPEN_URI          = OpenFlag(m.OpenURI)
	OPEN_MEMORY       = OpenFlag(m.OpenMemory)
	OPEN_NOMUTEX      = OpenFlag(m.OpenNoMutex)
	OPEN_FULLMUTEX    = OpenFlag(m.OpenFullMutex)
	OPEN_SHAREDCACHE  = OpenFlag(m.OpenSharedCache)
	OPEN_PRIVATECACHE = OpenFlag(m.OpenPrivateCache)
	OPEN_NOFOLLOW     = OpenFlag(m.OpenNoFollow)
)

// FuncFlag configures a scalar function: its text encoding and properties
// such as FUNC_DETERMINISTIC. Flags are handed to the engine unmodified.
type FuncFlag int

const (
	FUNC_UTF8          = FuncFlag(m.FuncUTF8)
	FUNC_UTF16LE       = FuncFlag(m.FuncUTF16LE)
	FUNC_UTF16BE       = FuncFlag(m.FuncUTF16BE)
	FUNC_UTF16         = FuncFlag(m.FuncUTF16)
	FUNC_DETERMINISTIC = FuncFlag(m.FuncDeterministic)
	FUNC_DIRECTONLY    = FuncFlag(m.FuncDirectOnly)
	FUNC_SUBTYPE       = FuncFlag(m.FuncSubtype)
	FUNC_INNOCUOUS     = FuncFlag(m.FuncInnocuous)
)

// Limit is a run-time limit category, see Conn.Limit and Conn.SetLimit.
type Limit int

const (
	LIMIT_LENGTH              = Limit(m.LimitLength)
	LIMIT_SQL_LENGTH          = Limit(m.LimitSQLLength)
	LIMIT_COLUMN              = Limit(m.LimitColumn)
	LIMIT_EXPR_DEPTH          = Limit(m.LimitExprDepth)
	LIMIT_COMPOUND_SELECT     = Limit(m.LimitCompoundSelect)
	LIMIT_VDBE_OP             = Limit(m.LimitVDBEOp)
	LIMIT_FUNCTION_ARG        = Limit(m.LimitFunctionArg)
	LIMIT_ATTACHED            = Limit(m.LimitAttached)
	LIMIT_LIKE_PATTERN_LENGTH = Limit(m.LimitLikePatternLength)
	LIMIT_VARIABLE_NUMBER     = Limit(m.LimitVariableNumber)
	LIMIT_TRIGGER_DEPTH       = Limit(m.LimitTriggerDepth)
	LIMIT_WORKER_THREADS      = Limit(m.LimitWorkerThreads)
)
