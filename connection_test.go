package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnInitialState(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	changes, err := c.Changes()
	require.NoError(t, err)
	require.Equal(t, 0, changes)

	total, err := c.TotalChanges()
	require.NoError(t, err)
	require.Equal(t, 0, total)

	rowid, err := c.LastInsertRowid()
	require.NoError(t, err)
	require.Equal(t, int64(0), rowid)

	code, err := c.ErrCode()
	require.NoError(t, err)
	require.Equal(t, OK, code)

	ext, err := c.ExtendedErrCode()
	require.NoError(t, err)
	require.Equal(t, OK, ext)

	msg, err := c.ErrMsg()
	require.NoError(t, err)
	require.Equal(t, "not an error", msg)

	autoCommit, err := c.GetAutoCommit()
	require.NoError(t, err)
	require.True(t, autoCommit)

	enc, err := c.Encoding("")
	require.NoError(t, err)
	require.Equal(t, "UTF-8", enc)
}

func TestConnReadonly(t *testing.T) {
	t.Run("read/write", func(t *testing.T) {
		c := openConn(t)
		defer closeConn(t, c)

		for _, schema := range []string{"", "main"} {
			ro, err := c.Readonly(schema)
			require.NoError(t, err)
			require.False(t, ro, "schema %q", schema)
		}

		_, err := c.Readonly("nosuch")
		testError(t, err, "no such database: nosuch")
		require.ErrorIs(t, err, WRAPPER_SPECIFIC)
	})

	t.Run("read-only", func(t *testing.T) {
		path := tempDBPath(t)
		c, err := Open(path, 0, "")
		require.NoError(t, err)
		require.NoError(t, c.FastExec("CREATE TABLE t (x)"))
		closeConn(t, c)

		c, err = Open(path, OPEN_READONLY, "")
		require.NoError(t, err)
		defer closeConn(t, c)

		ro, err := c.Readonly("")
		require.NoError(t, err)
		require.True(t, ro)

		err = c.FastExec("INSERT INTO t VALUES (1)")
		require.ErrorIs(t, err, ErrExec)
		require.ErrorIs(t, err, READONLY)
	})
}

func TestConnQueryOnly(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)
	require.NoError(t, c.FastExec("CREATE TABLE t (x)"))

	queryOnly, err := c.QueryOnly("")
	require.NoError(t, err)
	require.False(t, queryOnly)

	require.NoError(t, c.SetQueryOnly("", true))
	queryOnly, err = c.QueryOnly("main")
	require.NoError(t, err)
	require.True(t, queryOnly)

	_, err = c.Exec("INSERT INTO t VALUES (1)")
	require.ErrorIs(t, err, READONLY)

	require.NoError(t, c.SetQueryOnly("main", false))
	_, err = c.Exec("INSERT INTO t VALUES (1)")
	require.NoError(t, err)
}

func TestConnPrepare(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	t.Run("single statement", func(t *testing.T) {
		s, err := c.Prepare("SELECT 1", false)
		require.NoError(t, err)
		require.NotNil(t, s)
		require.Equal(t, "SELECT 1", s.SQL())
		require.NoError(t, s.Close())
	})

	t.Run("trailing comment", func(t *testing.T) {
		s, err := c.Prepare("SELECT 1; -- done\n/* really */ ;", true)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})

	t.Run("multiple statements", func(t *testing.T) {
		s, err := c.Prepare("SELECT 1; SELECT 2", false)
		require.NoError(t, err)
		require.Equal(t, " SELECT 2", s.Tail())
		require.NoError(t, s.Close())

		_, err = c.Prepare("SELECT 1; SELECT 2", true)
		testError(t, err, ErrPrepare.Error(), multiStmtErrMsg)
		require.ErrorIs(t, err, WRAPPER_SPECIFIC)
	})

	t.Run("no statement", func(t *testing.T) {
		for _, sql := range []string{"", "  ", "-- nothing"} {
			_, err := c.Prepare(sql, false)
			testError(t, err, ErrPrepare.Error(), noStmtErrMsg)
			require.ErrorIs(t, err, WRAPPER_SPECIFIC)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := c.Prepare("SELEC 1", false)
		testError(t, err, ErrPrepare.Error(), `near "SELEC"`)
		require.ErrorIs(t, err, ERROR)

		var sqliteErr *Error
		require.ErrorAs(t, err, &sqliteErr)
		require.Equal(t, "SELEC 1", sqliteErr.SQL)
	})

	require.Zero(t, c.openStmtCount())
}

func TestIsBlankSQL(t *testing.T) {
	tests := []struct {
		sql   string
		blank bool
	}{
		{"", true},
		{" \n\t;", true},
		{"-- comment", true},
		{"-- comment\n", true},
		{"/* comment */", true},
		{"/* unterminated", true},
		{"/* c */ SELECT 1", false},
		{"-- c\nSELECT 1", false},
		{"SELECT 1", false},
		{"- 1", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.blank, isBlankSQL(test.sql), "%q", test.sql)
	}
}

func TestConnExec(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	res, err := c.Exec("DROP TABLE IF EXISTS test;\n" +
		"CREATE TABLE test (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL," +
		" d REAL, i INTEGER, s TEXT UNIQUE); -- bim")
	require.NoError(t, err)
	require.Equal(t, int64(0), res.RowsAffected)

	res, err = c.Exec("INSERT INTO test (s) VALUES ('a'), ('b'); INSERT INTO test (s) VALUES ('c')")
	require.NoError(t, err)
	require.Equal(t, int64(3), res.RowsAffected)
	require.Equal(t, int64(3), res.LastInsertID)

	res, err = c.Exec("UPDATE test SET i = 1 WHERE id > 1")
	require.NoError(t, err)
	require.Equal(t, int64(2), res.RowsAffected)

	t.Run("constraint", func(t *testing.T) {
		_, err := c.Exec("INSERT INTO test (s) VALUES ('a')")
		testError(t, err, ErrExec.Error(), "UNIQUE constraint failed: test.s")
		require.ErrorIs(t, err, CONSTRAINT)
		require.ErrorIs(t, err, CONSTRAINT_UNIQUE)

		var sqliteErr *Error
		require.ErrorAs(t, err, &sqliteErr)
		require.Equal(t, CONSTRAINT, sqliteErr.Code)
		require.Equal(t, CONSTRAINT_UNIQUE, sqliteErr.ExtendedCode)
		require.Contains(t, sqliteErr.SQL, "INSERT INTO test")
	})

	t.Run("stops at first failure", func(t *testing.T) {
		_, err := c.Exec("INSERT INTO test (s) VALUES ('d'); INSERT INTO missing VALUES (1); INSERT INTO test (s) VALUES ('e')")
		testError(t, err, ErrPrepare.Error(), "no such table: missing")
		require.Equal(t, int64(4), queryInt(t, c, "SELECT count(*) FROM test"))
	})

	t.Run("rows are discarded", func(t *testing.T) {
		_, err := c.Exec("SELECT * FROM test")
		require.NoError(t, err)
	})
}

func TestConnTableColumnMetadata(t *testing.T) {
	if !CompileOptionUsed("ENABLE_COLUMN_METADATA") {
		c := openConn(t)
		defer closeConn(t, c)
		_, err := c.TableColumnMetadata("main", "test", "id")
		testError(t, err, noMetadataErrMsg)
		require.ErrorIs(t, err, WRAPPER_SPECIFIC)
		t.Skip("library built without column metadata")
	}

	c := openConn(t)
	defer closeConn(t, c)
	require.NoError(t, c.FastExec("CREATE TABLE test (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, s TEXT COLLATE NOCASE)"))

	md, err := c.TableColumnMetadata("main", "test", "id")
	require.NoError(t, err)
	require.True(t, md.NotNull)
	require.True(t, md.PrimaryKey)
	require.True(t, md.AutoIncrement)
	require.Equal(t, "INTEGER", md.DeclaredType)

	md, err = c.TableColumnMetadata("", "test", "s")
	require.NoError(t, err)
	require.False(t, md.NotNull)
	require.False(t, md.PrimaryKey)
	require.False(t, md.AutoIncrement)
	require.Equal(t, "NOCASE", md.CollationSequence)

	_, err = c.TableColumnMetadata("main", "test", "missing")
	testError(t, err, ErrExec.Error(), "no such table column: test.missing")
}

func TestConnFastExec(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	require.NoError(t, c.FastExec(`PRAGMA encoding="UTF-8"`))

	err := c.FastExec("SELEC 1")
	testError(t, err, ErrExec.Error(), `near "SELEC"`)
	require.ErrorIs(t, err, ERROR)
}

func TestConnForeignKeys(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	on, err := c.ForeignKeysEnabled()
	require.NoError(t, err)
	require.False(t, on)

	prev, err := c.EnableForeignKeys(true)
	require.NoError(t, err)
	require.False(t, prev)

	on, err = c.ForeignKeysEnabled()
	require.NoError(t, err)
	require.True(t, on)

	prev, err = c.EnableForeignKeys(false)
	require.NoError(t, err)
	require.True(t, prev)

	on, err = c.ForeignKeysEnabled()
	require.NoError(t, err)
	require.False(t, on)
}

func TestConnTriggers(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	on, err := c.TriggersEnabled()
	require.NoError(t, err)
	require.True(t, on)

	prev, err := c.EnableForeignKeys(false)
	require.NoError(t, err)
	require.False(t, prev)

	prev, err = c.EnableTriggers(false)
	require.NoError(t, err)
	require.True(t, prev)

	on, err = c.TriggersEnabled()
	require.NoError(t, err)
	require.False(t, on)

	require.NoError(t, c.FastExec(`
		CREATE TABLE t (x);
		CREATE TABLE log (x);
		CREATE TRIGGER tr AFTER INSERT ON t BEGIN INSERT INTO log VALUES (new.x); END;
		INSERT INTO t VALUES (1);`))
	require.Equal(t, int64(0), queryInt(t, c, "SELECT count(*) FROM log"))
}

func TestConnLoadExtension(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	require.NoError(t, c.EnableLoadExtension(true))
	msg, err := c.LoadExtension("/no/such/extension", "")
	require.NoError(t, err)
	require.NotEmpty(t, msg)

	require.NoError(t, c.EnableLoadExtension(false))
	msg, err = c.LoadExtension("/no/such/extension", "")
	require.NoError(t, err)
	require.Contains(t, msg, "not authorized")
}

func TestConnLimit(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	max, err := c.Limit(LIMIT_VARIABLE_NUMBER)
	require.NoError(t, err)

	// Values above the hard ceiling are clamped.
	prev, err := c.SetLimit(LIMIT_VARIABLE_NUMBER, max+1)
	require.NoError(t, err)
	require.Equal(t, max, prev)
	v, err := c.Limit(LIMIT_VARIABLE_NUMBER)
	require.NoError(t, err)
	require.Equal(t, max, v)

	prev, err = c.SetLimit(LIMIT_VARIABLE_NUMBER, max-1)
	require.NoError(t, err)
	require.Equal(t, max, prev)
	v, err = c.Limit(LIMIT_VARIABLE_NUMBER)
	require.NoError(t, err)
	require.Equal(t, max-1, v)
}

func TestConnLimitEnforced(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	_, err := c.SetLimit(LIMIT_VARIABLE_NUMBER, 1)
	require.NoError(t, err)

	_, err = c.Prepare("SELECT ?, ?", false)
	testError(t, err, ErrPrepare.Error(), "too many SQL variables")
}

func TestConnAutoCommit(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	require.NoError(t, c.FastExec("BEGIN"))
	autoCommit, err := c.GetAutoCommit()
	require.NoError(t, err)
	require.False(t, autoCommit)

	require.NoError(t, c.FastExec("COMMIT"))
	autoCommit, err = c.GetAutoCommit()
	require.NoError(t, err)
	require.True(t, autoCommit)
}

func TestConnBusyTimeout(t *testing.T) {
	path := tempDBPath(t)
	c1, err := Open(path, 0, "")
	require.NoError(t, err)
	defer closeConn(t, c1)
	c2, err := Open(path, 0, "")
	require.NoError(t, err)
	defer closeConn(t, c2)

	require.NoError(t, c1.FastExec("CREATE TABLE t (x); BEGIN EXCLUSIVE"))
	require.NoError(t, c2.BusyTimeout(10*time.Millisecond))

	err = c2.FastExec("INSERT INTO t VALUES (1)")
	require.ErrorIs(t, err, BUSY)
	require.NoError(t, c1.FastExec("COMMIT"))
}

func TestConnInterrupt(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)

	interrupt := ScalarFuncFunc(func(ctx *FuncContext, _ []Value) error {
		ctx.ResultNull()
		return c.Interrupt()
	})
	require.NoError(t, c.CreateScalarFunction("interrupt", 0, FUNC_UTF8, interrupt))

	err := c.FastExec("WITH RECURSIVE n(i) AS (SELECT 1 UNION ALL SELECT i+1 FROM n) SELECT interrupt(), i FROM n")
	require.ErrorIs(t, err, INTERRUPT)
}

func TestConnInterruptWhileClosing(t *testing.T) {
	for _i := 0; _i < 50; _i++ {
		c := openConn(t)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for !c.Closed() {
				if err := c.Interrupt(); err != nil {
					assert.ErrorIs(t, err, ErrClosedConn)
				}
			}
		}()

		require.NoError(t, c.Close())
		<-done
		require.ErrorIs(t, c.Interrupt(), ErrClosedConn)
	}
}

func TestConnVirtualTable(t *testing.T) {
	if !CompileOptionUsed("ENABLE_FTS4") {
		t.Skip("library built without FTS4")
	}
	c := openConn(t)
	defer closeConn(t, c)

	require.NoError(t, c.FastExec("CREATE VIRTUAL TABLE names USING fts4(name, desc, tokenize=porter)"))
	require.NoError(t, c.FastExec("INSERT INTO names VALUES ('gopher', 'digs tunnels')"))
	require.Equal(t, "gopher", queryText(t, c, "SELECT name FROM names WHERE desc MATCH 'tunnel'"))
}

func TestConnClose(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		c := openConn(t)
		require.NoError(t, c.Close())
		require.True(t, c.Closed())
		require.NoError(t, c.Close())
		require.NoError(t, c.CloseAndCheck())
	})

	t.Run("finalizes statements", func(t *testing.T) {
		c := openConn(t)
		s, err := c.Prepare("SELECT 1", false)
		require.NoError(t, err)
		require.NoError(t, c.Close())

		require.True(t, s.Closed())
		_, err = s.Step()
		testError(t, err, ErrClosedStmt.Error())
		require.NoError(t, s.Close())
	})

	t.Run("CloseAndCheck reports open statements", func(t *testing.T) {
		c := openConn(t)
		s1, err := c.Prepare("SELECT 1", false)
		require.NoError(t, err)
		_, err = c.Prepare("SELECT 2", false)
		require.NoError(t, err)
		require.NoError(t, s1.Close())

		err = c.CloseAndCheck()
		testError(t, err, errClose.Error(), errOpenStmts.Error()+": 1")
		require.ErrorIs(t, err, errOpenStmts)
		require.True(t, c.Closed())
	})

	t.Run("releases callbacks", func(t *testing.T) {
		c := openConn(t)
		require.NoError(t, c.Trace(TraceFunc(func(string) {})))
		require.NoError(t, c.CreateScalarFunction("f", 0, FUNC_UTF8, RowFunc(func([]Value) (any, error) { return 1, nil })))
		require.Equal(t, 1, c.callbacks.funcCount())
		require.NotNil(t, c.callbacks.handle)

		closeConn(t, c)
		require.Zero(t, c.callbacks.funcCount())
		require.Nil(t, c.callbacks.handle)
	})
}

func TestConnClosed(t *testing.T) {
	c := openConn(t)
	require.NoError(t, c.Close())

	checks := map[string]func() error{
		"GetAutoCommit": func() error { _, err := c.GetAutoCommit(); return err },
		"Exec":          func() error { _, err := c.Exec("SELECT 1"); return err },
		"FastExec":      func() error { return c.FastExec("SELECT 1") },
		"Prepare":       func() error { _, err := c.Prepare("SELECT 1", false); return err },
		"Changes":       func() error { _, err := c.Changes(); return err },
		"TotalChanges":  func() error { _, err := c.TotalChanges(); return err },
		"ErrMsg":        func() error { _, err := c.ErrMsg(); return err },
		"Filename":      func() error { _, err := c.Filename(); return err },
		"Readonly":      func() error { _, err := c.Readonly(""); return err },
		"QueryOnly":     func() error { _, err := c.QueryOnly(""); return err },
		"SetQueryOnly":  func() error { return c.SetQueryOnly("", true) },
		"ForeignKeys":   func() error { _, err := c.EnableForeignKeys(true); return err },
		"Triggers":      func() error { _, err := c.TriggersEnabled(); return err },
		"Encoding":      func() error { _, err := c.Encoding(""); return err },
		"Limit":         func() error { _, err := c.Limit(LIMIT_LENGTH); return err },
		"SetLimit":      func() error { _, err := c.SetLimit(LIMIT_LENGTH, 1); return err },
		"BusyTimeout":   func() error { return c.BusyTimeout(time.Second) },
		"Interrupt":     func() error { return c.Interrupt() },
		"LoadExtension": func() error { _, err := c.LoadExtension("x", ""); return err },
		"Metadata":      func() error { _, err := c.TableColumnMetadata("", "t", "c"); return err },
		"Trace":         func() error { return c.Trace(nil) },
		"Profile":       func() error { return c.Profile(nil) },
		"SetAuthorizer": func() error { return c.SetAuthorizer(nil) },
		"CreateScalarFunction": func() error {
			return c.CreateScalarFunction("f", 0, FUNC_UTF8, nil)
		},
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			testError(t, err, ErrClosedConn.Error())
			require.True(t, errors.Is(err, ErrClosedConn))
		})
	}
}
