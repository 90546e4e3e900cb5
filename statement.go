package sqlite

import (
	"fmt"
	"time"

	m "github.com/marcboeker/go-sqlite/mapping"
)

type stmtState int

const (
	stmtReady stmtState = iota
	stmtRow
	stmtDone
)

// Stmt is a prepared statement created by Conn.Prepare.
// Once closed, every method except Close fails with ErrClosedStmt. Closing
// the connection closes its statements.
type Stmt struct {
	conn        *Conn
	stmt        m.Stmt
	sql         string
	tail        string
	paramCount  int
	columnNames []string
	state       stmtState
}

func (s *Stmt) checkOpen() error {
	if !s.stmt.Valid() {
		return getError(ErrClosedStmt, nil)
	}
	return nil
}

// Close finalizes the statement. Closing a closed statement is a no-op.
func (s *Stmt) Close() error {
	if !s.stmt.Valid() {
		return nil
	}
	s.conn.untrackStmt(s)
	s.finalize()
	return nil
}

// CloseAndCheck finalizes the statement and reports the error of its most
// recent evaluation, if that failed.
func (s *Stmt) CloseAndCheck() error {
	if !s.stmt.Valid() {
		return nil
	}
	s.conn.untrackStmt(s)
	if rc := s.finalize(); rc != m.ResultOK {
		return getError(ErrExec, dbError(s.conn.db, rc, s.sql))
	}
	return nil
}

func (s *Stmt) finalize() int {
	rc := m.Finalize(&s.stmt)
	s.state = stmtDone
	return rc
}

// Closed reports whether the statement has been finalized.
func (s *Stmt) Closed() bool {
	return !s.stmt.Valid()
}

// SQL returns the text of the statement.
func (s *Stmt) SQL() string {
	return s.sql
}

// Tail returns the part of the prepared SQL after the first statement.
func (s *Stmt) Tail() string {
	return s.tail
}

// ExpandedSQL returns the text of the statement with bound parameters inlined.
func (s *Stmt) ExpandedSQL() (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	return m.ExpandedSQL(s.stmt), nil
}

// Readonly reports whether the statement makes no direct changes to the database.
func (s *Stmt) Readonly() (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return m.StmtReadonly(s.stmt), nil
}

// Busy reports whether the statement has been stepped but not yet reset or completed.
func (s *Stmt) Busy() (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return m.StmtBusy(s.stmt), nil
}

// ------------------------------------------------------------------ //
// Parameters
// ------------------------------------------------------------------ //

// ParamCount returns the largest parameter index of the statement.
func (s *Stmt) ParamCount() (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return s.paramCount, nil
}

// ParamIndex returns the index of a named parameter, including its prefix
// (e.g. ":id"), or 0 if there is no such parameter.
func (s *Stmt) ParamIndex(name string) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return m.BindParameterIndex(s.stmt, name), nil
}

// ParamName returns the name of the parameter at the given index (1-based).
// Nameless "?" parameters have an empty name.
func (s *Stmt) ParamName(n int) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if n < 1 || n > s.paramCount {
		return "", getError(ErrBind, paramIndexError(n, s.paramCount))
	}
	return m.BindParameterName(s.stmt, n), nil
}

// Bind binds args to the parameters 1 to len(args). Supported types are nil,
// bool, the integer and float types, string, []byte and time.Time, which is
// bound as RFC 3339 text.
func (s *Stmt) Bind(args ...any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(args) > s.paramCount {
		return getError(ErrBind, paramIndexError(len(args), s.paramCount))
	}
	for i, arg := range args {
		if err := s.bindValue(i+1, arg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stmt) bindValue(n int, arg any) error {
	var rc int
	switch v := arg.(type) {
	case nil:
		rc = m.BindNull(s.stmt, n)
	case bool:
		var i int64
		if v {
			i = 1
		}
		rc = m.BindInt64(s.stmt, n, i)
	case int:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case int8:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case int16:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case int32:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case int64:
		rc = m.BindInt64(s.stmt, n, v)
	case uint8:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case uint16:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case uint32:
		rc = m.BindInt64(s.stmt, n, int64(v))
	case float32:
		rc = m.BindDouble(s.stmt, n, float64(v))
	case float64:
		rc = m.BindDouble(s.stmt, n, v)
	case string:
		rc = m.BindText(s.stmt, n, v)
	case []byte:
		if v == nil {
			rc = m.BindNull(s.stmt, n)
		} else {
			rc = m.BindBlob(s.stmt, n, v)
		}
	case time.Time:
		rc = m.BindText(s.stmt, n, v.Format(time.RFC3339Nano))
	default:
		return getError(ErrBind, unsupportedTypeError(typeName(arg)))
	}
	return s.bindResult(rc)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func (s *Stmt) bindResult(rc int) error {
	if rc != m.ResultOK {
		return getError(ErrBind, dbError(s.conn.db, rc, s.sql))
	}
	return nil
}

// BindNull binds NULL to the parameter at the given index (1-based).
func (s *Stmt) BindNull(n int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindNull(s.stmt, n))
}

func (s *Stmt) BindInt(n int, v int) error {
	return s.BindInt64(n, int64(v))
}

func (s *Stmt) BindInt64(n int, v int64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindInt64(s.stmt, n, v))
}

func (s *Stmt) BindDouble(n int, v float64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindDouble(s.stmt, n, v))
}

func (s *Stmt) BindText(n int, v string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindText(s.stmt, n, v))
}

// BindBlob binds a copy of v. A nil slice binds an empty blob, not NULL.
func (s *Stmt) BindBlob(n int, v []byte) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindBlob(s.stmt, n, v))
}

// BindZeroBlob binds a blob of size zero bytes.
func (s *Stmt) BindZeroBlob(n int, size int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.BindZeroblob(s.stmt, n, size))
}

// BindByName binds v to the named parameter, including its prefix.
func (s *Stmt) BindByName(name string, v any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	n := m.BindParameterIndex(s.stmt, name)
	if n == 0 {
		return getError(ErrBind, wrapperError("no such parameter: "+name, s.sql))
	}
	return s.bindValue(n, v)
}

// ClearBindings sets every parameter to NULL.
func (s *Stmt) ClearBindings() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.bindResult(m.ClearBindings(s.stmt))
}

// ------------------------------------------------------------------ //
// Execution
// ------------------------------------------------------------------ //

// Step evaluates the statement up to its next row. It returns true if a row
// is available and false once the statement is done. Stepping a done
// statement resets it first.
func (s *Stmt) Step() (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	switch rc := m.Step(s.stmt); rc {
	case m.ResultRow:
		s.state = stmtRow
		return true, nil
	case m.ResultDone:
		s.state = stmtDone
		return false, nil
	default:
		s.state = stmtDone
		return false, getError(ErrExec, dbError(s.conn.db, rc, s.sql))
	}
}

// Exec steps the statement until it is done, discarding rows, and resets it.
func (s *Stmt) Exec(args ...any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(args) > 0 {
		if err := s.Bind(args...); err != nil {
			return err
		}
	}

	for {
		row, err := s.Step()
		if err != nil {
			m.Reset(s.stmt)
			s.state = stmtReady
			return err
		}
		if !row {
			break
		}
	}
	return s.Reset()
}

// Reset rewinds the statement so it can be stepped again. Bindings are kept.
func (s *Stmt) Reset() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	rc := m.Reset(s.stmt)
	prev := s.state
	s.state = stmtReady
	// sqlite3_reset repeats the code of a failed Step, which was reported there.
	if rc != m.ResultOK && prev != stmtDone {
		return getError(ErrExec, dbError(s.conn.db, rc, s.sql))
	}
	return nil
}

// ------------------------------------------------------------------ //
// Columns
// ------------------------------------------------------------------ //

func (s *Stmt) ColumnCount() (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return m.ColumnCount(s.stmt), nil
}

// DataCount returns the number of columns of the current row, 0 if there is none.
func (s *Stmt) DataCount() (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return m.DataCount(s.stmt), nil
}

// ColumnNames returns the names of the result columns.
func (s *Stmt) ColumnNames() ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.columnNames == nil {
		n := m.ColumnCount(s.stmt)
		names := make([]string, n)
		for i := range names {
			names[i] = m.ColumnName(s.stmt, i)
		}
		s.columnNames = names
	}
	return s.columnNames, nil
}

// ColumnName returns the name of the column at the given index (0-based).
func (s *Stmt) ColumnName(i int) (string, error) {
	names, err := s.ColumnNames()
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(names) {
		return "", getError(ErrExec, columnIndexError(i, len(names)))
	}
	return names[i], nil
}

// ColumnDeclType returns the declared type of a column that is a table
// column, and "" otherwise.
func (s *Stmt) ColumnDeclType(i int) (string, error) {
	if err := s.checkColumn(i, false); err != nil {
		return "", err
	}
	return m.ColumnDecltype(s.stmt, i), nil
}

// checkColumn validates i, and with row set, that a row is available.
func (s *Stmt) checkColumn(i int, row bool) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if n := m.ColumnCount(s.stmt); i < 0 || i >= n {
		return getError(ErrExec, columnIndexError(i, n))
	}
	if row && s.state != stmtRow {
		return getError(ErrExec, wrapperError(noRowStateErrMsg, s.sql))
	}
	return nil
}

// ColumnType returns the storage class of a column of the current row.
func (s *Stmt) ColumnType(i int) (Type, error) {
	if err := s.checkColumn(i, true); err != nil {
		return TYPE_NULL, err
	}
	return Type(m.ColumnType(s.stmt, i)), nil
}

func (s *Stmt) ColumnInt(i int) (int, error) {
	v, err := s.ColumnInt64(i)
	return int(v), err
}

func (s *Stmt) ColumnInt64(i int) (int64, error) {
	if err := s.checkColumn(i, true); err != nil {
		return 0, err
	}
	return m.ColumnInt64(s.stmt, i), nil
}

func (s *Stmt) ColumnDouble(i int) (float64, error) {
	if err := s.checkColumn(i, true); err != nil {
		return 0, err
	}
	return m.ColumnDouble(s.stmt, i), nil
}

// ColumnText returns a column as text. NULL reads as "".
func (s *Stmt) ColumnText(i int) (string, error) {
	if err := s.checkColumn(i, true); err != nil {
		return "", err
	}
	return m.ColumnText(s.stmt, i), nil
}

// ColumnBlob returns a copy of a column's bytes. NULL reads as nil.
func (s *Stmt) ColumnBlob(i int) ([]byte, error) {
	if err := s.checkColumn(i, true); err != nil {
		return nil, err
	}
	return m.ColumnBlob(s.stmt, i), nil
}

// ColumnValue returns a column as int64, float64, string, []byte or nil,
// according to its storage class.
func (s *Stmt) ColumnValue(i int) (any, error) {
	if err := s.checkColumn(i, true); err != nil {
		return nil, err
	}
	switch Type(m.ColumnType(s.stmt, i)) {
	case TYPE_INTEGER:
		return m.ColumnInt64(s.stmt, i), nil
	case TYPE_FLOAT:
		return m.ColumnDouble(s.stmt, i), nil
	case TYPE_TEXT:
		return m.ColumnText(s.stmt, i), nil
	case TYPE_BLOB:
		return m.ColumnBlob(s.stmt, i), nil
	}
	return nil, nil
}
