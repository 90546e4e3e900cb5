package sqlite

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// openConn opens an in-memory connection with a permissive authorizer, so
// that every test also exercises the authorizer trampoline.
func openConn(t *testing.T) *Conn {
	c, err := Open(Memory, OPEN_READWRITE|OPEN_FULLMUTEX, "")
	require.NoError(t, err)
	require.NotNil(t, c)

	allowAll := AuthorizerFunc(func(AuthAction, string, string, string, string) AuthResult {
		return AUTH_OK
	})
	require.NoError(t, c.SetAuthorizer(allowAll))
	return c
}

func closeConn(t *testing.T, c *Conn) {
	require.NoError(t, c.CloseAndCheck())
}

// tempDBPath returns a fresh database file location.
func tempDBPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), uuid.NewString()+".db")
}

// queryText returns the first column of the first row of sql.
func queryText(t *testing.T, c *Conn, sql string) string {
	s, err := c.Prepare(sql, true)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	row, err := s.Step()
	require.NoError(t, err)
	require.True(t, row, "no row for %q", sql)
	v, err := s.ColumnText(0)
	require.NoError(t, err)
	return v
}

func queryInt(t *testing.T, c *Conn, sql string) int64 {
	s, err := c.Prepare(sql, true)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	row, err := s.Step()
	require.NoError(t, err)
	require.True(t, row, "no row for %q", sql)
	v, err := s.ColumnInt64(0)
	require.NoError(t, err)
	return v
}

func TestLibVersion(t *testing.T) {
	require.True(t, strings.HasPrefix(LibVersion(), "3"))
	require.GreaterOrEqual(t, LibVersionNumber(), 3_000_000)
	require.Contains(t, []int{0, 1, 2}, Threadsafe())
	require.False(t, CompileOptionUsed("NO_SUCH_OPTION"))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("in-memory", func(t *testing.T) {
		c := openConn(t)
		defer closeConn(t, c)

		name, err := c.Filename()
		require.NoError(t, err)
		require.Equal(t, "", name)
	})

	t.Run("temp file", func(t *testing.T) {
		c, err := Open(TempFile, OPEN_READWRITE, "")
		require.NoError(t, err)
		defer closeConn(t, c)

		name, err := c.Filename()
		require.NoError(t, err)
		require.Equal(t, TempFile, name)
	})

	t.Run("file", func(t *testing.T) {
		path := tempDBPath(t)
		c, err := Open(path, 0, "")
		require.NoError(t, err)
		defer closeConn(t, c)

		require.Equal(t, OPEN_READWRITE|OPEN_CREATE, c.Flags())
		require.Equal(t, path, c.Location())
		name, err := c.Filename()
		require.NoError(t, err)
		require.Equal(t, filepath.Base(path), filepath.Base(name))
	})

	t.Run("uri implies OPEN_URI", func(t *testing.T) {
		c, err := Open("file:"+tempDBPath(t), OPEN_READWRITE|OPEN_CREATE, "")
		require.NoError(t, err)
		defer closeConn(t, c)
		require.NotZero(t, c.Flags()&OPEN_URI)
	})

	t.Run("unique ids", func(t *testing.T) {
		c1 := openConn(t)
		defer closeConn(t, c1)
		c2 := openConn(t)
		defer closeConn(t, c2)
		require.NotEqual(t, c1.ID(), c2.ID())
	})
}

func TestDefaultLoggerSilent(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	c := openConn(t)
	closeConn(t, c)
	require.Empty(t, buf.String())
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(lgr.New(lgr.Out(&buf), lgr.Debug))

	c := openConn(t)
	id := c.ID()
	closeConn(t, c)

	out := buf.String()
	require.Contains(t, out, "opened connection "+id)
	require.Contains(t, out, "closed connection "+id)

	buf.Reset()
	SetLogger(nil)
	c = openConn(t)
	closeConn(t, c)
	require.Empty(t, buf.String())
}
