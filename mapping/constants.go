package mapping

/*
#include <sqlite3.h>
*/
import "C"

// Result codes.

const (
	ResultOK         = int(C.SQLITE_OK)
	ResultError      = int(C.SQLITE_ERROR)
	ResultInternal   = int(C.SQLITE_INTERNAL)
	ResultPerm       = int(C.SQLITE_PERM)
	ResultAbort      = int(C.SQLITE_ABORT)
	ResultBusy       = int(C.SQLITE_BUSY)
	ResultLocked     = int(C.SQLITE_LOCKED)
	ResultNoMem      = int(C.SQLITE_NOMEM)
	ResultReadOnly   = int(C.SQLITE_READONLY)
	ResultInterrupt  = int(C.SQLITE_INTERRUPT)
	ResultIOErr      = int(C.SQLITE_IOERR)
	ResultCorrupt    = int(C.SQLITE_CORRUPT)
	ResultNotFound   = int(C.SQLITE_NOTFOUND)
	ResultFull       = int(C.SQLITE_FULL)
	ResultCantOpen   = int(C.SQLITE_CANTOPEN)
	ResultProtocol   = int(C.SQLITE_PROTOCOL)
	ResultEmpty      = int(C.SQLITE_EMPTY)
	ResultSchema     = int(C.SQLITE_SCHEMA)
	ResultTooBig     = int(C.SQLITE_TOOBIG)
	ResultConstraint = int(C.SQLITE_CONSTRAINT)
	ResultMismatch   = int(C.SQLITE_MISMATCH)
	ResultMisuse     = int(C.SQLITE_MISUSE)
	ResultNoLFS      = int(C.SQLITE_NOLFS)
	ResultAuth       = int(C.SQLITE_AUTH)
	ResultFormat     = int(C.SQLITE_FORMAT)
	ResultRange      = int(C.SQLITE_RANGE)
	ResultNotADB     = int(C.SQLITE_NOTADB)
	ResultNotice     = int(C.SQLITE_NOTICE)
	ResultWarning    = int(C.SQLITE_WARNING)
	ResultRow        = int(C.SQLITE_ROW)
	ResultDone       = int(C.SQLITE_DONE)
)

// Extended result codes.

const (
	ResultBusyRecovery      = int(C.SQLITE_BUSY_RECOVERY)
	ResultBusySnapshot      = int(C.SQLITE_BUSY_SNAPSHOT)
	ResultLockedSharedCache = int(C.SQLITE_LOCKED_SHAREDCACHE)
	ResultReadOnlyRecovery  = int(C.SQLITE_READONLY_RECOVERY)
	ResultReadOnlyCantLock  = int(C.SQLITE_READONLY_CANTLOCK)
	ResultReadOnlyRollback  = int(C.SQLITE_READONLY_ROLLBACK)
	ResultReadOnlyDBMoved   = int(C.SQLITE_READONLY_DBMOVED)
	ResultIOErrRead         = int(C.SQLITE_IOERR_READ)
	ResultIOErrShortRead    = int(C.SQLITE_IOERR_SHORT_READ)
	ResultIOErrWrite        = int(C.SQLITE_IOERR_WRITE)
	ResultIOErrFsync        = int(C.SQLITE_IOERR_FSYNC)
	ResultIOErrTruncate     = int(C.SQLITE_IOERR_TRUNCATE)
	ResultIOErrDelete       = int(C.SQLITE_IOERR_DELETE)
	ResultIOErrNoMem        = int(C.SQLITE_IOERR_NOMEM)
	ResultIOErrLock         = int(C.SQLITE_IOERR_LOCK)
	ResultCantOpenIsDir     = int(C.SQLITE_CANTOPEN_ISDIR)
	ResultCantOpenFullPath  = int(C.SQLITE_CANTOPEN_FULLPATH)
	ResultCorruptVTab       = int(C.SQLITE_CORRUPT_VTAB)
	ResultAbortRollback     = int(C.SQLITE_ABORT_ROLLBACK)
	ResultConstraintCheck   = int(C.SQLITE_CONSTRAINT_CHECK)
	ResultConstraintCommit  = int(C.SQLITE_CONSTRAINT_COMMITHOOK)
	ResultConstraintFK      = int(C.SQLITE_CONSTRAINT_FOREIGNKEY)
	ResultConstraintFunc    = int(C.SQLITE_CONSTRAINT_FUNCTION)
	ResultConstraintNotNull = int(C.SQLITE_CONSTRAINT_NOTNULL)
	ResultConstraintPK      = int(C.SQLITE_CONSTRAINT_PRIMARYKEY)
	ResultConstraintTrigger = int(C.SQLITE_CONSTRAINT_TRIGGER)
	ResultConstraintUnique  = int(C.SQLITE_CONSTRAINT_UNIQUE)
	ResultConstraintVTab    = int(C.SQLITE_CONSTRAINT_VTAB)
	ResultConstraintRowID   = int(C.SQLITE_CONSTRAINT_ROWID)
)

// Open flags.

const (
	OpenReadOnly     = int(C.SQLITE_OPEN_READONLY)
	OpenReadWrite    = int(C.SQLITE_OPEN_READWRITE)
	OpenCreate       = int(C.SQLITE_OPEN_CREATE)
	OpenURI          = int(C.SQLITE_OPEN_URI)
	OpenMemory       = int(C.SQLITE_OPEN_MEMORY)
	OpenNoMutex      = int(C.SQLITE_OPEN_NOMUTEX)
	OpenFullMutex    = int(C.SQLITE_OPEN_FULLMUTEX)
	OpenSharedCache  = int(C.SQLITE_OPEN_SHAREDCACHE)
	OpenPrivateCache = int(C.SQLITE_OPEN_PRIVATECACHE)
	OpenNoFollow     = int(C.SQLITE_OPEN_NOFOLLOW)
)

// Fundamental datatypes.

const (
	TypeInteger = int(C.SQLITE_INTEGER)
	TypeFloat   = int(C.SQLITE_FLOAT)
	TypeText    = int(C.SQLITE_TEXT)
	TypeBlob    = int(C.SQLITE_BLOB)
	TypeNull    = int(C.SQLITE_NULL)
)

// Function flags.

const (
	FuncUTF8          = int(C.SQLITE_UTF8)
	FuncUTF16LE       = int(C.SQLITE_UTF16LE)
	FuncUTF16BE       = int(C.SQLITE_UTF16BE)
	FuncUTF16         = int(C.SQLITE_UTF16)
	FuncDeterministic = int(C.SQLITE_DETERMINISTIC)
	FuncDirectOnly    = int(C.SQLITE_DIRECTONLY)
	FuncSubtype       = int(C.SQLITE_SUBTYPE)
	FuncInnocuous     = int(C.SQLITE_INNOCUOUS)
)

// Run-time limit categories.

const (
	LimitLength            = int(C.SQLITE_LIMIT_LENGTH)
	LimitSQLLength         = int(C.SQLITE_LIMIT_SQL_LENGTH)
	LimitColumn            = int(C.SQLITE_LIMIT_COLUMN)
	LimitExprDepth         = int(C.SQLITE_LIMIT_EXPR_DEPTH)
	LimitCompoundSelect    = int(C.SQLITE_LIMIT_COMPOUND_SELECT)
	LimitVDBEOp            = int(C.SQLITE_LIMIT_VDBE_OP)
	LimitFunctionArg       = int(C.SQLITE_LIMIT_FUNCTION_ARG)
	LimitAttached          = int(C.SQLITE_LIMIT_ATTACHED)
	LimitLikePatternLength = int(C.SQLITE_LIMIT_LIKE_PATTERN_LENGTH)
	LimitVariableNumber    = int(C.SQLITE_LIMIT_VARIABLE_NUMBER)
	LimitTriggerDepth      = int(C.SQLITE_LIMIT_TRIGGER_DEPTH)
	LimitWorkerThreads     = int(C.SQLITE_LIMIT_WORKER_THREADS)
)

// Authorizer return codes.

const (
	AuthOK     = int(C.SQLITE_OK)
	AuthDeny   = int(C.SQLITE_DENY)
	AuthIgnore = int(C.SQLITE_IGNORE)
)

// Authorizer action codes.

const (
	ActionCreateIndex       = int(C.SQLITE_CREATE_INDEX)
	ActionCreateTable       = int(C.SQLITE_CREATE_TABLE)
	ActionCreateTempIndex   = int(C.SQLITE_CREATE_TEMP_INDEX)
	ActionCreateTempTable   = int(C.SQLITE_CREATE_TEMP_TABLE)
	ActionCreateTempTrigger = int(C.SQLITE_CREATE_TEMP_TRIGGER)
	ActionCreateTempView    = int(C.SQLITE_CREATE_TEMP_VIEW)
	ActionCreateTrigger     = int(C.SQLITE_CREATE_TRIGGER)
	ActionCreateView        = int(C.SQLITE_CREATE_VIEW)
	ActionDelete            = int(C.SQLITE_DELETE)
	ActionDropIndex         = int(C.SQLITE_DROP_INDEX)
	ActionDropTable         = int(C.SQLITE_DROP_TABLE)
	ActionDropTempIndex     = int(C.SQLITE_DROP_TEMP_INDEX)
	ActionDropTempTable     = int(C.SQLITE_DROP_TEMP_TABLE)
	ActionDropTempTrigger   = int(C.SQLITE_DROP_TEMP_TRIGGER)
	ActionDropTempView      = int(C.SQLITE_DROP_TEMP_VIEW)
	ActionDropTrigger       = int(C.SQLITE_DROP_TRIGGER)
	ActionDropView          = int(C.SQLITE_DROP_VIEW)
	ActionInsert            = int(C.SQLITE_INSERT)
	ActionPragma            = int(C.SQLITE_PRAGMA)
	ActionRead              = int(C.SQLITE_READ)
	ActionSelect            = int(C.SQLITE_SELECT)
	ActionTransaction       = int(C.SQLITE_TRANSACTION)
	ActionUpdate            = int(C.SQLITE_UPDATE)
	ActionAttach            = int(C.SQLITE_ATTACH)
	ActionDetach            = int(C.SQLITE_DETACH)
	ActionAlterTable        = int(C.SQLITE_ALTER_TABLE)
	ActionReindex           = int(C.SQLITE_REINDEX)
	ActionAnalyze           = int(C.SQLITE_ANALYZE)
	ActionCreateVTable      = int(C.SQLITE_CREATE_VTABLE)
	ActionDropVTable        = int(C.SQLITE_DROP_VTABLE)
	ActionFunction          = int(C.SQLITE_FUNCTION)
	ActionSavepoint         = int(C.SQLITE_SAVEPOINT)
	ActionRecursive         = int(C.SQLITE_RECURSIVE)
)

// Trace event masks.

const (
	TraceStmt    = uint(C.SQLITE_TRACE_STMT)
	TraceProfile = uint(C.SQLITE_TRACE_PROFILE)
	TraceRow     = uint(C.SQLITE_TRACE_ROW)
	TraceClose   = uint(C.SQLITE_TRACE_CLOSE)
)

// Database connection configuration options.

const (
	DBConfigEnableFKey    = int(C.SQLITE_DBCONFIG_ENABLE_FKEY)
	DBConfigEnableTrigger = int(C.SQLITE_DBCONFIG_ENABLE_TRIGGER)
	DBConfigEnableView    = int(C.SQLITE_DBCONFIG_ENABLE_VIEW)
	DBConfigDefensive     = int(C.SQLITE_DBCONFIG_DEFENSIVE)
	DBConfigLoadExtension = int(C.SQLITE_DBCONFIG_ENABLE_LOAD_EXTENSION)
)
