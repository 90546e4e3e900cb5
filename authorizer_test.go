package sqlite

import (
	"bytes"
	"sync"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/require"
)

type authCall struct {
	action AuthAction
	arg1   string
	arg2   string
	dbName string
}

type recordingAuthorizer struct {
	mu    sync.Mutex
	calls []authCall
}

func (r *recordingAuthorizer) Authorize(action AuthAction, arg1, arg2, dbName, _ string) AuthResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, authCall{action, arg1, arg2, dbName})
	return AUTH_OK
}

func TestAuthorizerActions(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)
	require.NoError(t, c.FastExec("CREATE TABLE t (x, y)"))

	rec := &recordingAuthorizer{}
	require.NoError(t, c.SetAuthorizer(rec))

	s := prepare(t, c, "INSERT INTO t (x) VALUES (1)")
	require.NoError(t, s.Close())
	require.Contains(t, rec.calls, authCall{ACTION_INSERT, "t", "", "main"})

	rec.calls = nil
	s = prepare(t, c, "SELECT y FROM t")
	require.NoError(t, s.Close())
	require.Contains(t, rec.calls, authCall{ACTION_SELECT, "", "", ""})
	require.Contains(t, rec.calls, authCall{ACTION_READ, "t", "y", "main"})
}

func TestAuthorizerDeny(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)
	require.NoError(t, c.FastExec("CREATE TABLE t (x)"))

	noDrop := AuthorizerFunc(func(action AuthAction, _, _, _, _ string) AuthResult {
		if action == ACTION_DROP_TABLE {
			return AUTH_DENY
		}
		return AUTH_OK
	})
	require.NoError(t, c.SetAuthorizer(noDrop))

	_, err := c.Prepare("DROP TABLE t", true)
	testError(t, err, ErrPrepare.Error(), "not authorized")
	require.ErrorIs(t, err, AUTH)

	// Removing the authorizer allows everything again.
	require.NoError(t, c.SetAuthorizer(nil))
	require.NoError(t, c.FastExec("DROP TABLE t"))
}

func TestAuthorizerIgnore(t *testing.T) {
	c := openConn(t)
	defer closeConn(t, c)
	require.NoError(t, c.FastExec("CREATE TABLE users (name, secret); INSERT INTO users VALUES ('gopher', 'hunter2')"))

	hideSecrets := AuthorizerFunc(func(action AuthAction, _, column, _, _ string) AuthResult {
		if action == ACTION_READ && column == "secret" {
			return AUTH_IGNORE
		}
		return AUTH_OK
	})
	require.NoError(t, c.SetAuthorizer(hideSecrets))

	s := prepare(t, c, "SELECT name, secret FROM users")
	defer func() { require.NoError(t, s.Close()) }()

	row, err := s.Step()
	require.NoError(t, err)
	require.True(t, row)

	name, err := s.ColumnValue(0)
	require.NoError(t, err)
	require.Equal(t, "gopher", name)

	secret, err := s.ColumnValue(1)
	require.NoError(t, err)
	require.Nil(t, secret)
}

func TestAuthorizerMisbehaving(t *testing.T) {
	defer SetLogger(nil)
	var buf bytes.Buffer
	SetLogger(lgr.New(lgr.Out(&buf)))

	c := openConn(t)
	defer closeConn(t, c)

	t.Run("panic", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, c.SetAuthorizer(AuthorizerFunc(func(AuthAction, string, string, string, string) AuthResult {
			panic("no")
		})))

		_, err := c.Prepare("SELECT 1", true)
		require.ErrorIs(t, err, AUTH)
		require.Contains(t, buf.String(), "authorizer panicked on SELECT")
	})

	t.Run("unknown result", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, c.SetAuthorizer(AuthorizerFunc(func(AuthAction, string, string, string, string) AuthResult {
			return AuthResult(42)
		})))

		_, err := c.Prepare("SELECT 1", true)
		require.ErrorIs(t, err, AUTH)
		require.Contains(t, buf.String(), "unknown result 42")
	})
}

func TestAuthActionString(t *testing.T) {
	require.Equal(t, "SELECT", ACTION_SELECT.String())
	require.Equal(t, "DROP_TEMP_TRIGGER", ACTION_DROP_TEMP_TRIGGER.String())
	require.Equal(t, "RECURSIVE", ACTION_RECURSIVE.String())
	require.Equal(t, "ACTION(999)", AuthAction(999).String())
}
