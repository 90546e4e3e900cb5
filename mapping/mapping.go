// Package mapping is the only package that talks to the SQLite C API.
// Every native handle is wrapped in a struct with an unexported pointer, so
// callers outside this package can pass handles around but never read,
// forge or reuse the raw address after release.
package mapping

/*
#include <stdlib.h>
#include <sqlite3.h>

static int bind_text(sqlite3_stmt *s, int i, const char *p, int n) {
	if (n == 0) {
		return sqlite3_bind_text(s, i, "", 0, SQLITE_STATIC);
	}
	return sqlite3_bind_text(s, i, p, n, SQLITE_TRANSIENT);
}

static int bind_blob(sqlite3_stmt *s, int i, const void *p, int n) {
	if (n == 0) {
		return sqlite3_bind_zeroblob(s, i, 0);
	}
	return sqlite3_bind_blob(s, i, p, n, SQLITE_TRANSIENT);
}

static void result_text(sqlite3_context *ctx, const char *p, int n) {
	if (n == 0) {
		sqlite3_result_text(ctx, "", 0, SQLITE_STATIC);
		return;
	}
	sqlite3_result_text(ctx, p, n, SQLITE_TRANSIENT);
}

static void result_blob(sqlite3_context *ctx, const void *p, int n) {
	if (n == 0) {
		sqlite3_result_zeroblob(ctx, 0);
		return;
	}
	sqlite3_result_blob(ctx, p, n, SQLITE_TRANSIENT);
}

// cgo doesn't handle variadic functions.
static int db_config_flag(sqlite3 *db, int op, int v, int *res) {
	return sqlite3_db_config(db, op, v, res);
}

// Callbacks arrive as untyped pointers to exported Go functions.
static int create_function(sqlite3 *db, const char *name, int n, int flags, void *app, void *xfunc, void *xdestroy) {
	return sqlite3_create_function_v2(db, name, n, flags, app,
		(void (*)(sqlite3_context *, int, sqlite3_value **))xfunc, 0, 0,
		(void (*)(void *))xdestroy);
}

static int set_authorizer(sqlite3 *db, void *cb, void *arg) {
	return sqlite3_set_authorizer(db,
		(int (*)(void *, int, const char *, const char *, const char *, const char *))cb, arg);
}

static int trace_v2(sqlite3 *db, unsigned mask, void *cb, void *arg) {
	return sqlite3_trace_v2(db, mask, (int (*)(unsigned, void *, void *, void *))cb, arg);
}

static sqlite3_value *value_at(sqlite3_value **argv, int i) {
	return argv[i];
}

static sqlite3_int64 trace_nanos(void *x) {
	return *(sqlite3_int64 *)x;
}
*/
import "C"

import (
	"unsafe"
)

// ------------------------------------------------------------------ //
// Handles
// ------------------------------------------------------------------ //

// DB is a sqlite3* connection handle.
type DB struct {
	ptr *C.sqlite3
}

// Valid reports whether the handle has not been released.
func (db DB) Valid() bool {
	return db.ptr != nil
}

// Stmt is a sqlite3_stmt* prepared statement handle.
type Stmt struct {
	ptr *C.sqlite3_stmt
}

// Valid reports whether the handle has not been finalized.
func (s Stmt) Valid() bool {
	return s.ptr != nil
}

// Context is a sqlite3_context* handed to a function callback.
type Context struct {
	ptr *C.sqlite3_context
}

// Value is a protected sqlite3_value* handed to a function callback.
type Value struct {
	ptr *C.sqlite3_value
}

// ContextFromPtr wraps the context pointer of a native callback frame.
func ContextFromPtr(ptr unsafe.Pointer) Context {
	return Context{ptr: (*C.sqlite3_context)(ptr)}
}

// ValueAt returns the i-th element of a native sqlite3_value** argument array.
func ValueAt(argv unsafe.Pointer, i int) Value {
	return Value{ptr: C.value_at((**C.sqlite3_value)(argv), C.int(i))}
}

// ------------------------------------------------------------------ //
// Library
// ------------------------------------------------------------------ //

func Initialize() int {
	return int(C.sqlite3_initialize())
}

func Libversion() string {
	return C.GoString(C.sqlite3_libversion())
}

func LibversionNumber() int {
	return int(C.sqlite3_libversion_number())
}

func Threadsafe() int {
	return int(C.sqlite3_threadsafe())
}

func Errstr(rc int) string {
	return C.GoString(C.sqlite3_errstr(C.int(rc)))
}

func CompileoptionUsed(name string) bool {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return C.sqlite3_compileoption_used(cName) != 0
}

// ------------------------------------------------------------------ //
// Connection
// ------------------------------------------------------------------ //

// OpenV2 is sqlite3_open_v2. The returned handle may be valid even on error,
// in which case it must still be closed.
func OpenV2(filename string, flags int, vfs string) (DB, int) {
	cName := C.CString(filename)
	defer C.free(unsafe.Pointer(cName))

	var cVfs *C.char
	if vfs != "" {
		cVfs = C.CString(vfs)
		defer C.free(unsafe.Pointer(cVfs))
	}

	var db *C.sqlite3
	rc := C.sqlite3_open_v2(cName, &db, C.int(flags), cVfs)
	return DB{ptr: db}, int(rc)
}

// Close is sqlite3_close. The handle is released only on success.
func Close(db *DB) int {
	rc := int(C.sqlite3_close(db.ptr))
	if rc == ResultOK {
		db.ptr = nil
	}
	return rc
}

// CloseV2 is sqlite3_close_v2. The handle is always released.
func CloseV2(db *DB) int {
	rc := int(C.sqlite3_close_v2(db.ptr))
	db.ptr = nil
	return rc
}

func ExtendedResultCodes(db DB, on bool) int {
	return int(C.sqlite3_extended_result_codes(db.ptr, cBool(on)))
}

func Errcode(db DB) int {
	return int(C.sqlite3_errcode(db.ptr))
}

func ExtendedErrcode(db DB) int {
	return int(C.sqlite3_extended_errcode(db.ptr))
}

func Errmsg(db DB) string {
	return C.GoString(C.sqlite3_errmsg(db.ptr))
}

func Changes(db DB) int {
	return int(C.sqlite3_changes(db.ptr))
}

func TotalChanges(db DB) int {
	return int(C.sqlite3_total_changes(db.ptr))
}

func LastInsertRowid(db DB) int64 {
	return int64(C.sqlite3_last_insert_rowid(db.ptr))
}

func GetAutocommit(db DB) bool {
	return C.sqlite3_get_autocommit(db.ptr) != 0
}

// DBFilename is sqlite3_db_filename. It returns "" for temporary and
// in-memory databases.
func DBFilename(db DB, schema string) string {
	cSchema := C.CString(schema)
	defer C.free(unsafe.Pointer(cSchema))
	p := C.sqlite3_db_filename(db.ptr, cSchema)
	return C.GoString((*C.char)(unsafe.Pointer(p)))
}

// DBReadonly is sqlite3_db_readonly: 1 read-only, 0 read/write, -1 no such schema.
func DBReadonly(db DB, schema string) int {
	cSchema := C.CString(schema)
	defer C.free(unsafe.Pointer(cSchema))
	return int(C.sqlite3_db_readonly(db.ptr, cSchema))
}

// Exec is sqlite3_exec without a row callback.
func Exec(db DB, sql string) (int, string) {
	cSQL := C.CString(sql)
	defer C.free(unsafe.Pointer(cSQL))

	var errMsg *C.char
	rc := C.sqlite3_exec(db.ptr, cSQL, nil, nil, &errMsg)
	if errMsg == nil {
		return int(rc), ""
	}
	msg := C.GoString(errMsg)
	C.sqlite3_free(unsafe.Pointer(errMsg))
	return int(rc), msg
}

// DBConfigFlag sets a boolean sqlite3_db_config option. v < 0 leaves it
// unchanged. It returns the setting in effect after the call.
func DBConfigFlag(db DB, op int, v int) (int, bool) {
	var res C.int
	rc := C.db_config_flag(db.ptr, C.int(op), C.int(v), &res)
	return int(rc), res != 0
}

// Limit is sqlite3_limit. It returns the prior value; v < 0 only queries.
func Limit(db DB, id int, v int) int {
	return int(C.sqlite3_limit(db.ptr, C.int(id), C.int(v)))
}

func BusyTimeout(db DB, ms int) int {
	return int(C.sqlite3_busy_timeout(db.ptr, C.int(ms)))
}

func Interrupt(db DB) {
	C.sqlite3_interrupt(db.ptr)
}

// ColumnMetadata is the output of sqlite3_table_column_metadata.
type ColumnMetadata struct {
	DeclaredType  string
	CollSeq       string
	NotNull       bool
	PrimaryKey    bool
	AutoIncrement bool
}

func TableColumnMetadata(db DB, schema string, table string, column string) (ColumnMetadata, int) {
	var cSchema *C.char
	if schema != "" {
		cSchema = C.CString(schema)
		defer C.free(unsafe.Pointer(cSchema))
	}
	cTable := C.CString(table)
	defer C.free(unsafe.Pointer(cTable))
	cColumn := C.CString(column)
	defer C.free(unsafe.Pointer(cColumn))

	var (
		declType, collSeq           *C.char
		notNull, primaryKey, autoInc C.int
	)
	rc := C.sqlite3_table_column_metadata(db.ptr, cSchema, cTable, cColumn,
		&declType, &collSeq, &notNull, &primaryKey, &autoInc)
	if rc != C.SQLITE_OK {
		return ColumnMetadata{}, int(rc)
	}
	return ColumnMetadata{
		DeclaredType:  C.GoString(declType),
		CollSeq:       C.GoString(collSeq),
		NotNull:       notNull != 0,
		PrimaryKey:    primaryKey != 0,
		AutoIncrement: autoInc != 0,
	}, int(rc)
}

func EnableLoadExtension(db DB, on bool) int {
	return int(C.sqlite3_enable_load_extension(db.ptr, cBool(on)))
}

// LoadExtension is sqlite3_load_extension. An empty entry point lets the
// engine derive it from the file name.
func LoadExtension(db DB, file string, entryPoint string) (int, string) {
	cFile := C.CString(file)
	defer C.free(unsafe.Pointer(cFile))

	var cProc *C.char
	if entryPoint != "" {
		cProc = C.CString(entryPoint)
		defer C.free(unsafe.Pointer(cProc))
	}

	var errMsg *C.char
	rc := C.sqlite3_load_extension(db.ptr, cFile, cProc, &errMsg)
	if errMsg == nil {
		return int(rc), ""
	}
	msg := C.GoString(errMsg)
	C.sqlite3_free(unsafe.Pointer(errMsg))
	return int(rc), msg
}

// ------------------------------------------------------------------ //
// Callback registration
// ------------------------------------------------------------------ //

// CreateFunctionV2 is sqlite3_create_function_v2 for scalar functions.
// A nil xFunc deletes the function registered under (name, nArg).
func CreateFunctionV2(db DB, name string, nArg int, flags int, app unsafe.Pointer, xFunc unsafe.Pointer, xDestroy unsafe.Pointer) int {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return int(C.create_function(db.ptr, cName, C.int(nArg), C.int(flags), app, xFunc, xDestroy))
}

// SetAuthorizer is sqlite3_set_authorizer. A nil callback removes it.
func SetAuthorizer(db DB, callback unsafe.Pointer, arg unsafe.Pointer) int {
	return int(C.set_authorizer(db.ptr, callback, arg))
}

// TraceV2 is sqlite3_trace_v2. A zero mask removes the callback.
func TraceV2(db DB, mask uint, callback unsafe.Pointer, arg unsafe.Pointer) int {
	return int(C.trace_v2(db.ptr, C.uint(mask), callback, arg))
}

// TraceSQL returns the SQL of the statement passed as the P argument of a
// trace callback, expanded with bound parameters if requested.
func TraceSQL(p unsafe.Pointer, expanded bool) string {
	stmt := (*C.sqlite3_stmt)(p)
	if expanded {
		if s := C.sqlite3_expanded_sql(stmt); s != nil {
			sql := C.GoString(s)
			C.sqlite3_free(unsafe.Pointer(s))
			return sql
		}
	}
	return C.GoString(C.sqlite3_sql(stmt))
}

// TraceNanos reads the elapsed nanoseconds passed as the X argument of a
// SQLITE_TRACE_PROFILE callback.
func TraceNanos(x unsafe.Pointer) int64 {
	return int64(C.trace_nanos(x))
}

// ------------------------------------------------------------------ //
// Prepared statements
// ------------------------------------------------------------------ //

// PrepareV2 compiles the first statement of sql and returns the unparsed
// remainder. An empty or comment-only input yields an invalid Stmt and ResultOK.
func PrepareV2(db DB, sql string) (Stmt, string, int) {
	cSQL := C.CString(sql)
	defer C.free(unsafe.Pointer(cSQL))

	var (
		stmt *C.sqlite3_stmt
		tail *C.char
	)
	rc := C.sqlite3_prepare_v2(db.ptr, cSQL, C.int(len(sql)+1), &stmt, &tail)

	rest := ""
	if tail != nil {
		offset := int(uintptr(unsafe.Pointer(tail)) - uintptr(unsafe.Pointer(cSQL)))
		if offset >= 0 && offset < len(sql) {
			rest = sql[offset:]
		}
	}
	return Stmt{ptr: stmt}, rest, int(rc)
}

// Finalize is sqlite3_finalize. The handle is always released.
func Finalize(s *Stmt) int {
	rc := int(C.sqlite3_finalize(s.ptr))
	s.ptr = nil
	return rc
}

func Step(s Stmt) int {
	return int(C.sqlite3_step(s.ptr))
}

func Reset(s Stmt) int {
	return int(C.sqlite3_reset(s.ptr))
}

func ClearBindings(s Stmt) int {
	return int(C.sqlite3_clear_bindings(s.ptr))
}

func SQL(s Stmt) string {
	return C.GoString(C.sqlite3_sql(s.ptr))
}

func ExpandedSQL(s Stmt) string {
	p := C.sqlite3_expanded_sql(s.ptr)
	if p == nil {
		return ""
	}
	defer C.sqlite3_free(unsafe.Pointer(p))
	return C.GoString(p)
}

func StmtReadonly(s Stmt) bool {
	return C.sqlite3_stmt_readonly(s.ptr) != 0
}

func StmtBusy(s Stmt) bool {
	return C.sqlite3_stmt_busy(s.ptr) != 0
}

func DataCount(s Stmt) int {
	return int(C.sqlite3_data_count(s.ptr))
}

// ------------------------------------------------------------------ //
// Binding
// ------------------------------------------------------------------ //

func BindParameterCount(s Stmt) int {
	return int(C.sqlite3_bind_parameter_count(s.ptr))
}

func BindParameterIndex(s Stmt, name string) int {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return int(C.sqlite3_bind_parameter_index(s.ptr, cName))
}

func BindParameterName(s Stmt, i int) string {
	return C.GoString(C.sqlite3_bind_parameter_name(s.ptr, C.int(i)))
}

func BindNull(s Stmt, i int) int {
	return int(C.sqlite3_bind_null(s.ptr, C.int(i)))
}

func BindInt64(s Stmt, i int, v int64) int {
	return int(C.sqlite3_bind_int64(s.ptr, C.int(i), C.sqlite3_int64(v)))
}

func BindDouble(s Stmt, i int, v float64) int {
	return int(C.sqlite3_bind_double(s.ptr, C.int(i), C.double(v)))
}

func BindText(s Stmt, i int, v string) int {
	p := (*C.char)(unsafe.Pointer(unsafe.StringData(v)))
	return int(C.bind_text(s.ptr, C.int(i), p, C.int(len(v))))
}

func BindBlob(s Stmt, i int, v []byte) int {
	p := unsafe.Pointer(unsafe.SliceData(v))
	return int(C.bind_blob(s.ptr, C.int(i), p, C.int(len(v))))
}

func BindZeroblob(s Stmt, i int, n int) int {
	return int(C.sqlite3_bind_zeroblob(s.ptr, C.int(i), C.int(n)))
}

// ------------------------------------------------------------------ //
// Columns
// ------------------------------------------------------------------ //

func ColumnCount(s Stmt) int {
	return int(C.sqlite3_column_count(s.ptr))
}

func ColumnName(s Stmt, i int) string {
	return C.GoString(C.sqlite3_column_name(s.ptr, C.int(i)))
}

func ColumnDecltype(s Stmt, i int) string {
	return C.GoString(C.sqlite3_column_decltype(s.ptr, C.int(i)))
}

func ColumnType(s Stmt, i int) int {
	return int(C.sqlite3_column_type(s.ptr, C.int(i)))
}

func ColumnInt64(s Stmt, i int) int64 {
	return int64(C.sqlite3_column_int64(s.ptr, C.int(i)))
}

func ColumnDouble(s Stmt, i int) float64 {
	return float64(C.sqlite3_column_double(s.ptr, C.int(i)))
}

func ColumnText(s Stmt, i int) string {
	p := C.sqlite3_column_text(s.ptr, C.int(i))
	if p == nil {
		return ""
	}
	n := C.sqlite3_column_bytes(s.ptr, C.int(i))
	return C.GoStringN((*C.char)(unsafe.Pointer(p)), n)
}

// ColumnBlob returns a copy of the column's bytes, or nil for NULL.
func ColumnBlob(s Stmt, i int) []byte {
	p := C.sqlite3_column_blob(s.ptr, C.int(i))
	if p == nil {
		if C.sqlite3_column_type(s.ptr, C.int(i)) == C.SQLITE_NULL {
			return nil
		}
		return []byte{}
	}
	n := C.sqlite3_column_bytes(s.ptr, C.int(i))
	return C.GoBytes(p, n)
}

// ------------------------------------------------------------------ //
// Function values and results
// ------------------------------------------------------------------ //

// UserData is sqlite3_user_data: the app pointer given at registration.
func UserData(ctx Context) unsafe.Pointer {
	return C.sqlite3_user_data(ctx.ptr)
}

func ValueType(v Value) int {
	return int(C.sqlite3_value_type(v.ptr))
}

func ValueNumericType(v Value) int {
	return int(C.sqlite3_value_numeric_type(v.ptr))
}

func ValueInt64(v Value) int64 {
	return int64(C.sqlite3_value_int64(v.ptr))
}

func ValueDouble(v Value) float64 {
	return float64(C.sqlite3_value_double(v.ptr))
}

func ValueText(v Value) string {
	p := C.sqlite3_value_text(v.ptr)
	if p == nil {
		return ""
	}
	n := C.sqlite3_value_bytes(v.ptr)
	return C.GoStringN((*C.char)(unsafe.Pointer(p)), n)
}

func ValueBlob(v Value) []byte {
	p := C.sqlite3_value_blob(v.ptr)
	if p == nil {
		return nil
	}
	n := C.sqlite3_value_bytes(v.ptr)
	return C.GoBytes(p, n)
}

func ResultNull(ctx Context) {
	C.sqlite3_result_null(ctx.ptr)
}

func ResultInt64(ctx Context, v int64) {
	C.sqlite3_result_int64(ctx.ptr, C.sqlite3_int64(v))
}

func ResultDouble(ctx Context, v float64) {
	C.sqlite3_result_double(ctx.ptr, C.double(v))
}

func ResultText(ctx Context, v string) {
	p := (*C.char)(unsafe.Pointer(unsafe.StringData(v)))
	C.result_text(ctx.ptr, p, C.int(len(v)))
}

func ResultBlob(ctx Context, v []byte) {
	C.result_blob(ctx.ptr, unsafe.Pointer(unsafe.SliceData(v)), C.int(len(v)))
}

func ResultZeroblob(ctx Context, n int) {
	C.sqlite3_result_zeroblob(ctx.ptr, C.int(n))
}

func ResultValue(ctx Context, v Value) {
	C.sqlite3_result_value(ctx.ptr, v.ptr)
}

// ResultErrorMsg is sqlite3_result_error. The engine copies the message.
func ResultErrorMsg(ctx Context, msg string) {
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	C.sqlite3_result_error(ctx.ptr, cMsg, C.int(len(msg)))
}

func ResultErrorCode(ctx Context, rc int) {
	C.sqlite3_result_error_code(ctx.ptr, C.int(rc))
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
