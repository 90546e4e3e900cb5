package sqlite

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// Conn is a connection to a SQLite database.
// Once closed, every method except Close and CloseAndCheck fails with ErrClosedConn.
type Conn struct {
	// handleMu guards db against Close racing Interrupt.
	handleMu sync.RWMutex
	db       m.DB
	id       string
	location string
	flags    OpenFlag

	mu    sync.Mutex
	stmts map[*Stmt]struct{}

	callbacks *callbackTable
}

// Open opens a connection to location, which is a filesystem path, Memory,
// TempFile or a "file:" URI. A zero flags value means OPEN_READWRITE|OPEN_CREATE,
// and a URI location implies OPEN_URI. An empty vfs selects the default VFS.
//
// Recognized URI query parameters are applied before Open returns. If one of
// them fails, the connection is closed and the error wraps ErrConfig.
func Open(location string, flags OpenFlag, vfs string) (*Conn, error) {
	if err := initialize(); err != nil {
		return nil, err
	}

	if flags == 0 {
		flags = OPEN_READWRITE | OPEN_CREATE
	}
	uri := isURI(location)
	if uri {
		flags |= OPEN_URI
	}

	db, rc := m.OpenV2(location, int(flags), vfs)
	if rc != m.ResultOK {
		var err *Error
		if db.Valid() {
			err = dbError(db, rc, "")
			m.CloseV2(&db)
		} else {
			err = newError(rc, "", "")
		}
		return nil, getError(ErrOpen, err)
	}
	m.ExtendedResultCodes(db, true)

	c := &Conn{
		db:        db,
		id:        uuid.NewString(),
		location:  location,
		flags:     flags,
		stmts:     make(map[*Stmt]struct{}),
		callbacks: newCallbackTable(),
	}

	if uri {
		if err := applyURIConfig(c, location); err != nil {
			c.close()
			return nil, getError(ErrConfig, err)
		}
	}

	logf("[DEBUG] opened connection %s to %q", c.id, location)
	return c, nil
}

func isURI(location string) bool {
	return strings.HasPrefix(location, "file:")
}

// ID returns a random identifier of the connection, used in log lines.
func (c *Conn) ID() string {
	return c.id
}

// Location returns the location given to Open.
func (c *Conn) Location() string {
	return c.location
}

// Flags returns the flags the connection was opened with.
func (c *Conn) Flags() OpenFlag {
	return c.flags
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.handleMu.RLock()
	defer c.handleMu.RUnlock()
	return !c.db.Valid()
}

func (c *Conn) checkOpen() error {
	if !c.db.Valid() {
		return getError(ErrClosedConn, nil)
	}
	return nil
}

// Close finalizes any statement still open on the connection, closes the
// database and releases every registered callback. Closing a closed
// connection is a no-op.
func (c *Conn) Close() error {
	c.close()
	return nil
}

// CloseAndCheck closes the connection like Close, but reports statements
// that were still open and a native close that did not succeed.
func (c *Conn) CloseAndCheck() error {
	c.handleMu.Lock()
	defer c.handleMu.Unlock()
	if !c.db.Valid() {
		return nil
	}

	var errs *multierror.Error
	if n := c.finalizeStmts(); n > 0 {
		errs = multierror.Append(errs, fmt.Errorf("%w: %d", errOpenStmts, n))
	}
	if rc := m.Close(&c.db); rc != m.ResultOK {
		errs = multierror.Append(errs, dbError(c.db, rc, ""))
		m.CloseV2(&c.db)
	}
	c.released()

	if err := errs.ErrorOrNil(); err != nil {
		return getError(errClose, err)
	}
	return nil
}

func (c *Conn) close() {
	c.handleMu.Lock()
	defer c.handleMu.Unlock()
	if !c.db.Valid() {
		return
	}
	if n := c.finalizeStmts(); n > 0 {
		logf("[WARN] connection %s closed with %d open statements", c.id, n)
	}
	if rc := m.CloseV2(&c.db); rc != m.ResultOK {
		logf("[WARN] closing connection %s: %s", c.id, ErrorCode(rc))
	}
	c.released()
}

// released drops the callbacks once the native handle is gone. Scalar
// function pins were already released by the engine's destroy callbacks.
func (c *Conn) released() {
	c.callbacks.clear()
	logf("[DEBUG] closed connection %s", c.id)
}

func (c *Conn) trackStmt(s *Stmt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stmts[s] = struct{}{}
}

func (c *Conn) untrackStmt(s *Stmt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stmts, s)
}

func (c *Conn) openStmtCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stmts)
}

// finalizeStmts finalizes the statements still open and returns their number.
func (c *Conn) finalizeStmts() int {
	c.mu.Lock()
	stmts := make([]*Stmt, 0, len(c.stmts))
	for s := range c.stmts {
		stmts = append(stmts, s)
	}
	clear(c.stmts)
	c.mu.Unlock()

	for _, s := range stmts {
		s.finalize()
	}
	return len(stmts)
}

// Exec runs every statement of sql in order, discarding any rows. It stops at
// the first failing statement; the returned error carries that statement's SQL.
func (c *Conn) Exec(sql string) (Result, error) {
	if err := c.checkOpen(); err != nil {
		return Result{}, err
	}

	var res Result
	rest := sql
	for rest != "" {
		s, tail, rc := m.PrepareV2(c.db, rest)
		if rc != m.ResultOK {
			return res, getError(ErrPrepare, dbError(c.db, rc, rest))
		}
		if !s.Valid() {
			// Only whitespace or comments were left.
			break
		}

		before := m.TotalChanges(c.db)
		rc = m.Step(s)
		for rc == m.ResultRow {
			rc = m.Step(s)
		}
		if rc != m.ResultDone {
			err := dbError(c.db, rc, m.SQL(s))
			m.Finalize(&s)
			return res, getError(ErrExec, err)
		}
		m.Finalize(&s)

		if m.TotalChanges(c.db) != before {
			res.RowsAffected += int64(m.Changes(c.db))
		}
		rest = tail
	}
	res.LastInsertID = m.LastInsertRowid(c.db)
	return res, nil
}

// FastExec runs sql with a single sqlite3_exec call and no change bookkeeping.
func (c *Conn) FastExec(sql string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.fastExec(sql); err != nil {
		return getError(ErrExec, err)
	}
	return nil
}

func (c *Conn) fastExec(sql string) error {
	rc, msg := m.Exec(c.db, sql)
	if rc == m.ResultOK {
		return nil
	}
	err := dbError(c.db, rc, sql)
	if msg != "" {
		err.Msg = msg
	}
	return err
}

// Prepare compiles the first statement of sql. If forceSingleStatement is
// set and sql holds more than one statement, it fails with WRAPPER_SPECIFIC.
// SQL without any statement fails the same way.
func (c *Conn) Prepare(sql string, forceSingleStatement bool) (*Stmt, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	ms, tail, rc := m.PrepareV2(c.db, sql)
	if rc != m.ResultOK {
		return nil, getError(ErrPrepare, dbError(c.db, rc, sql))
	}
	if !ms.Valid() {
		return nil, getError(ErrPrepare, wrapperError(noStmtErrMsg, sql))
	}
	if forceSingleStatement && !isBlankSQL(tail) {
		m.Finalize(&ms)
		return nil, getError(ErrPrepare, wrapperError(multiStmtErrMsg, sql))
	}

	s := &Stmt{
		conn:       c,
		stmt:       ms,
		sql:        m.SQL(ms),
		tail:       tail,
		paramCount: m.BindParameterCount(ms),
	}
	c.trackStmt(s)
	return s, nil
}

// isBlankSQL reports whether sql holds only whitespace, semicolons and comments.
func isBlankSQL(sql string) bool {
	for i := 0; i < len(sql); i++ {
		switch ch := sql[i]; {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == ';':
		case strings.HasPrefix(sql[i:], "--"):
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				return true
			}
			i += end
		case strings.HasPrefix(sql[i:], "/*"):
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				// An unterminated comment runs to the end of the input.
				return true
			}
			i += end + 3
		default:
			return false
		}
	}
	return true
}

// Changes returns the number of rows changed by the most recent INSERT,
// UPDATE or DELETE.
func (c *Conn) Changes() (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return m.Changes(c.db), nil
}

// TotalChanges returns the number of rows changed since the connection was opened.
func (c *Conn) TotalChanges() (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return m.TotalChanges(c.db), nil
}

func (c *Conn) LastInsertRowid() (int64, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return m.LastInsertRowid(c.db), nil
}

// ErrCode returns the primary code of the most recent failed call.
func (c *Conn) ErrCode() (ErrorCode, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return ErrorCode(m.Errcode(c.db)).Primary(), nil
}

func (c *Conn) ExtendedErrCode() (ErrorCode, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return ErrorCode(m.ExtendedErrcode(c.db)), nil
}

func (c *Conn) ErrMsg() (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	return m.Errmsg(c.db), nil
}

// GetAutoCommit reports whether the connection is outside an explicit transaction.
func (c *Conn) GetAutoCommit() (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	return m.GetAutocommit(c.db), nil
}

// Filename returns the file of the main database. It is empty for Memory
// and TempFile databases.
func (c *Conn) Filename() (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	return m.DBFilename(c.db, "main"), nil
}

func schemaOrMain(schema string) string {
	if schema == "" {
		return "main"
	}
	return schema
}

// Readonly reports whether the given database is read-only.
func (c *Conn) Readonly(schema string) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	schema = schemaOrMain(schema)
	switch m.DBReadonly(c.db, schema) {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return false, getError(ErrExec, wrapperError(fmt.Sprintf("no such database: %s", schema), ""))
}

// QueryOnly reports whether the given database refuses data changes.
func (c *Conn) QueryOnly(schema string) (bool, error) {
	return c.Pragma(schema, "query_only")
}

// SetQueryOnly turns the query_only pragma of the given database on or off.
func (c *Conn) SetQueryOnly(schema string, on bool) error {
	return c.setPragma(schema, "query_only", on)
}

// ForeignKeysEnabled reports whether foreign key constraints are enforced.
func (c *Conn) ForeignKeysEnabled() (bool, error) {
	return c.dbConfig(m.DBConfigEnableFKey, -1)
}

// EnableForeignKeys turns foreign key enforcement on or off and returns the
// previous setting.
func (c *Conn) EnableForeignKeys(on bool) (bool, error) {
	return c.toggleConfig(m.DBConfigEnableFKey, on)
}

// TriggersEnabled reports whether triggers fire.
func (c *Conn) TriggersEnabled() (bool, error) {
	return c.dbConfig(m.DBConfigEnableTrigger, -1)
}

// EnableTriggers turns triggers on or off and returns the previous setting.
func (c *Conn) EnableTriggers(on bool) (bool, error) {
	return c.toggleConfig(m.DBConfigEnableTrigger, on)
}

func (c *Conn) toggleConfig(op int, on bool) (bool, error) {
	prev, err := c.dbConfig(op, -1)
	if err != nil {
		return false, err
	}
	v := 0
	if on {
		v = 1
	}
	if _, err = c.dbConfig(op, v); err != nil {
		return false, err
	}
	return prev, nil
}

func (c *Conn) dbConfig(op int, v int) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	rc, res := m.DBConfigFlag(c.db, op, v)
	if rc != m.ResultOK {
		return false, getError(ErrConfig, dbError(c.db, rc, ""))
	}
	return res, nil
}

// Encoding returns the text encoding of the given database, e.g. "UTF-8".
func (c *Conn) Encoding(schema string) (string, error) {
	return c.PragmaText(schema, "encoding")
}

// Pragma reads a boolean pragma of the given database.
func (c *Conn) Pragma(schema string, name string) (bool, error) {
	v, err := c.pragmaInt(schema, name)
	return v != 0, err
}

// PragmaText reads a pragma of the given database as text.
func (c *Conn) PragmaText(schema string, name string) (string, error) {
	s, err := c.queryPragma(schema, name)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.ColumnText(0)
}

func (c *Conn) pragmaInt(schema string, name string) (int64, error) {
	s, err := c.queryPragma(schema, name)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.ColumnInt64(0)
}

// queryPragma prepares and steps "PRAGMA schema.name". The returned
// statement is positioned on the pragma's first row.
func (c *Conn) queryPragma(schema string, name string) (*Stmt, error) {
	sql := "PRAGMA " + pragmaName(schema, name)
	s, err := c.Prepare(sql, true)
	if err != nil {
		return nil, err
	}
	row, err := s.Step()
	if err != nil {
		s.Close()
		return nil, err
	}
	if !row {
		s.Close()
		return nil, getError(ErrExec, wrapperError(noRowErrMsg, sql))
	}
	return s, nil
}

func (c *Conn) setPragma(schema string, name string, on bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.applyBoolPragma(pragmaName(schema, name), on); err != nil {
		return getError(ErrExec, err)
	}
	return nil
}

func pragmaName(schema string, name string) string {
	if schema == "" {
		return name
	}
	return quoteIdent(schema) + "." + name
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ColumnMetadata describes a table column as declared in the schema.
type ColumnMetadata struct {
	DeclaredType      string
	CollationSequence string
	NotNull           bool
	PrimaryKey        bool
	AutoIncrement     bool
}

// TableColumnMetadata describes column of table in the given database. An
// empty schema searches every attached database. It fails with
// WRAPPER_SPECIFIC if the library was built without column metadata.
func (c *Conn) TableColumnMetadata(schema string, table string, column string) (ColumnMetadata, error) {
	if err := c.checkOpen(); err != nil {
		return ColumnMetadata{}, err
	}
	if !CompileOptionUsed("ENABLE_COLUMN_METADATA") {
		return ColumnMetadata{}, getError(ErrExec, wrapperError(noMetadataErrMsg, ""))
	}

	md, rc := m.TableColumnMetadata(c.db, schema, table, column)
	if rc != m.ResultOK {
		return ColumnMetadata{}, getError(ErrExec, dbError(c.db, rc, ""))
	}
	return ColumnMetadata{
		DeclaredType:      md.DeclaredType,
		CollationSequence: md.CollSeq,
		NotNull:           md.NotNull,
		PrimaryKey:        md.PrimaryKey,
		AutoIncrement:     md.AutoIncrement,
	}, nil
}

// Limit returns the current value of a run-time limit.
func (c *Conn) Limit(category Limit) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return m.Limit(c.db, int(category), -1), nil
}

// SetLimit changes a run-time limit and returns its previous value. Values
// above the compile-time ceiling are silently clamped to it.
func (c *Conn) SetLimit(category Limit, value int) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return m.Limit(c.db, int(category), value), nil
}

// BusyTimeout makes the connection retry for up to d when a table is locked.
// A non-positive d turns retrying off.
func (c *Conn) BusyTimeout(d time.Duration) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if rc := m.BusyTimeout(c.db, int(d/time.Millisecond)); rc != m.ResultOK {
		return getError(ErrConfig, dbError(c.db, rc, ""))
	}
	return nil
}

// Interrupt makes the statements running on the connection fail with
// INTERRUPT at their next opportunity. It may be called from any goroutine.
func (c *Conn) Interrupt() error {
	c.handleMu.RLock()
	defer c.handleMu.RUnlock()
	if err := c.checkOpen(); err != nil {
		return err
	}
	m.Interrupt(c.db)
	return nil
}

// EnableLoadExtension allows or forbids LoadExtension.
func (c *Conn) EnableLoadExtension(on bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if rc := m.EnableLoadExtension(c.db, on); rc != m.ResultOK {
		return getError(ErrConfig, dbError(c.db, rc, ""))
	}
	return nil
}

// LoadExtension loads a shared library extension. An empty entryPoint lets
// the engine derive it from the file name. On failure it returns the engine's
// message and a nil error; the error is reserved for a closed connection.
func (c *Conn) LoadExtension(file string, entryPoint string) (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	rc, msg := m.LoadExtension(c.db, file, entryPoint)
	if rc != m.ResultOK && msg == "" {
		msg = ErrorCode(rc).String()
	}
	return msg, nil
}
