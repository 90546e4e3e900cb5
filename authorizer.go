package sqlite

/*
int authorizer_callback(void *, int, char *, char *, char *, char *);

typedef int (*authorizer_callback_t)(void *, int, char *, char *, char *, char *);
*/
import "C"

import (
	"fmt"
	"unsafe"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// AuthAction is the action an Authorizer is asked about.
type AuthAction int

const (
	ACTION_CREATE_INDEX        = AuthAction(m.ActionCreateIndex)
	ACTION_CREATE_TABLE        = AuthAction(m.ActionCreateTable)
	ACTION_CREATE_TEMP_INDEX   = AuthAction(m.ActionCreateTempIndex)
	ACTION_CREATE_TEMP_TABLE   = AuthAction(m.ActionCreateTempTable)
	ACTION_CREATE_TEMP_TRIGGER = AuthAction(m.ActionCreateTempTrigger)
	ACTION_CREATE_TEMP_VIEW    = AuthAction(m.ActionCreateTempView)
	ACTION_CREATE_TRIGGER      = AuthAction(m.ActionCreateTrigger)
	ACTION_CREATE_VIEW         = AuthAction(m.ActionCreateView)
	ACTION_DELETE              = AuthAction(m.ActionDelete)
	ACTION_DROP_INDEX          = AuthAction(m.ActionDropIndex)
	ACTION_DROP_TABLE          = AuthAction(m.ActionDropTable)
	ACTION_DROP_TEMP_INDEX     = AuthAction(m.ActionDropTempIndex)
	ACTION_DROP_TEMP_TABLE     = AuthAction(m.ActionDropTempTable)
	ACTION_DROP_TEMP_TRIGGER   = AuthAction(m.ActionDropTempTrigger)
	ACTION_DROP_TEMP_VIEW      = AuthAction(m.ActionDropTempView)
	ACTION_DROP_TRIGGER        = AuthAction(m.ActionDropTrigger)
	ACTION_DROP_VIEW           = AuthAction(m.ActionDropView)
	ACTION_INSERT              = AuthAction(m.ActionInsert)
	ACTION_PRAGMA              = AuthAction(m.ActionPragma)
	ACTION_READ                = AuthAction(m.ActionRead)
	ACTION_SELECT              = AuthAction(m.ActionSelect)
	ACTION_TRANSACTION         = AuthAction(m.ActionTransaction)
	ACTION_UPDATE              = AuthAction(m.ActionUpdate)
	ACTION_ATTACH              = AuthAction(m.ActionAttach)
	ACTION_DETACH              = AuthAction(m.ActionDetach)
	ACTION_ALTER_TABLE         = AuthAction(m.ActionAlterTable)
	ACTION_REINDEX             = AuthAction(m.ActionReindex)
	ACTION_ANALYZE             = AuthAction(m.ActionAnalyze)
	ACTION_CREATE_VTABLE       = AuthAction(m.ActionCreateVTable)
	ACTION_DROP_VTABLE         = AuthAction(m.ActionDropVTable)
	ACTION_FUNCTION            = AuthAction(m.ActionFunction)
	ACTION_SAVEPOINT           = AuthAction(m.ActionSavepoint)
	ACTION_RECURSIVE           = AuthAction(m.ActionRecursive)
)

var actionToStringMap = map[AuthAction]string{
	ACTION_CREATE_INDEX:        "CREATE_INDEX",
	ACTION_CREATE_TABLE:        "CREATE_TABLE",
	ACTION_CREATE_TEMP_INDEX:   "CREATE_TEMP_INDEX",
	ACTION_CREATE_TEMP_TABLE:   "CREATE_TEMP_TABLE",
	ACTION_CREATE_TEMP_TRIGGER: "CREATE_TEMP_TRIGGER",
	ACTION_CREATE_TEMP_VIEW:    "CREATE_TEMP_VIEW",
	ACTION_CREATE_TRIGGER:      "CREATE_TRIGGER",
	ACTION_CREATE_VIEW:         "CREATE_VIEW",
	ACTION_DELETE:              "DELETE",
	ACTION_DROP_INDEX:          "DROP_INDEX",
	ACTION_DROP_TABLE:          "DROP_TABLE",
	ACTION_DROP_TEMP_INDEX:     "DROP_TEMP_INDEX",
	ACTION_DROP_TEMP_TABLE:     "DROP_TEMP_TABLE",
	ACTION_DROP_TEMP_TRIGGER:   "DROP_TEMP_TRIGGER",
	ACTION_DROP_TEMP_VIEW:      "DROP_TEMP_VIEW",
	ACTION_DROP_TRIGGER:        "DROP_TRIGGER",
	ACTION_DROP_VIEW:           "DROP_VIEW",
	ACTION_INSERT:              "INSERT",
	ACTION_PRAGMA:              "PRAGMA",
	ACTION_READ:                "READ",
	ACTION_SELECT:              "SELECT",
	ACTION_TRANSACTION:         "TRANSACTION",
	ACTION_UPDATE:              "UPDATE",
	ACTION_ATTACH:              "ATTACH",
	ACTION_DETACH:              "DETACH",
	ACTION_ALTER_TABLE:         "ALTER_TABLE",
	ACTION_REINDEX:             "REINDEX",
	ACTION_ANALYZE:             "ANALYZE",
	ACTION_CREATE_VTABLE:       "CREATE_VTABLE",
	ACTION_DROP_VTABLE:         "DROP_VTABLE",
	ACTION_FUNCTION:            "FUNCTION",
	ACTION_SAVEPOINT:           "SAVEPOINT",
	ACTION_RECURSIVE:           "RECURSIVE",
}

func (a AuthAction) String() string {
	if s, ok := actionToStringMap[a]; ok {
		return s
	}
	return fmt.Sprintf("ACTION(%d)", int(a))
}

// AuthResult is an Authorizer's decision.
type AuthResult int

const (
	// AUTH_OK allows the action.
	AUTH_OK = AuthResult(m.AuthOK)
	// AUTH_DENY makes the statement fail to prepare.
	AUTH_DENY = AuthResult(m.AuthDeny)
	// AUTH_IGNORE allows the statement but disallows the action, e.g. a
	// column read yields NULL.
	AUTH_IGNORE = AuthResult(m.AuthIgnore)
)

// Authorizer is consulted while statements are prepared. The meaning of
// arg1 and arg2 depends on action; dbName is the schema and trigger the
// innermost trigger or view responsible for the access, if any.
// A panicking Authorizer, or one returning an unknown result, denies.
type Authorizer interface {
	Authorize(action AuthAction, arg1, arg2, dbName, trigger string) AuthResult
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(action AuthAction, arg1, arg2, dbName, trigger string) AuthResult

func (f AuthorizerFunc) Authorize(action AuthAction, arg1, arg2, dbName, trigger string) AuthResult {
	return f(action, arg1, arg2, dbName, trigger)
}

// SetAuthorizer installs a, replacing the previous authorizer. A nil a removes it.
func (c *Conn) SetAuthorizer(a Authorizer) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	c.callbacks.setAuthorizer(a)
	var rc int
	if a == nil {
		rc = m.SetAuthorizer(c.db, nil, nil)
	} else {
		callbackPtr := unsafe.Pointer(C.authorizer_callback_t(C.authorizer_callback))
		rc = m.SetAuthorizer(c.db, callbackPtr, c.callbacks.userData())
	}
	if rc != m.ResultOK {
		return getError(ErrCallback, dbError(c.db, rc, ""))
	}
	return nil
}

//export authorizer_callback
func authorizer_callback(arg unsafe.Pointer, action C.int, arg1, arg2, dbName, trigger *C.char) (res C.int) {
	defer func() {
		if r := recover(); r != nil {
			logf("[WARN] authorizer panicked on %s, denying: %v", AuthAction(action), r)
			res = C.int(AUTH_DENY)
		}
	}()

	a := getPinned[*callbackTable](arg).getAuthorizer()
	if a == nil {
		return C.int(AUTH_OK)
	}

	switch r := a.Authorize(AuthAction(action), C.GoString(arg1), C.GoString(arg2), C.GoString(dbName), C.GoString(trigger)); r {
	case AUTH_OK, AUTH_DENY, AUTH_IGNORE:
		return C.int(r)
	default:
		logf("[WARN] authorizer returned unknown result %d on %s, denying", int(r), AuthAction(action))
		return C.int(AUTH_DENY)
	}
}
