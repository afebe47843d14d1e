// Package session keeps authenticated user session between program runs. It is
// a tiny key/value storage of three values: access token, user name and user id.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"chapterprep/config"
)

const (
	keyToken    = "token"
	keyUsername = "username"
	keyUserID   = "user_id"
)

// ErrNoSession is returned when there is no usable stored session, user has
// to log in.
var ErrNoSession = errors.New("not logged in")

// Session is an authenticated user session as returned by login.
type Session struct {
	Token    config.SecretString `json:"token"`
	Username string              `json:"username"`
	UserID   int64               `json:"user_id"`
}

// Store is a session storage backed by SQLite database file. Store may be
// cleared from dialog goroutines when API reports expired token, so access to
// the connection is serialized.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
}

// Open opens (creating if necessary) session storage at path. Use ":memory:"
// for storage which does not survive program exit.
func Open(path string) (*Store, error) {
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("unable to open session storage '%s': %w", path, err)
	}
	err = sqlitex.ExecuteTransient(conn, `CREATE TABLE IF NOT EXISTS storage (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, nil)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("unable to prepare session storage '%s': %w", path, err), conn.Close())
	}
	return &Store{conn: conn, path: path}, nil
}

// Path returns location of the storage.
func (s *Store) Path() string {
	return s.path
}

// Load returns stored session. Both token and user name must be present,
// otherwise session is considered absent.
func (s *Store) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, 3)
	err := sqlitex.Execute(s.conn, `SELECT key, value FROM storage`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			values[stmt.ColumnText(0)] = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return Session{}, fmt.Errorf("unable to read session: %w", err)
	}

	if len(values[keyToken]) == 0 || len(values[keyUsername]) == 0 {
		return Session{}, ErrNoSession
	}
	sess := Session{
		Token:    config.SecretString(values[keyToken]),
		Username: values[keyUsername],
	}
	if v, ok := values[keyUserID]; ok {
		if sess.UserID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Session{}, fmt.Errorf("malformed stored user id '%s': %w", v, err)
		}
	}
	return sess, nil
}

// Save replaces stored session.
func (s *Store) Save(sess Session) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer sqlitex.Save(s.conn)(&err)

	for k, v := range map[string]string{
		keyToken:    sess.Token.Reveal(),
		keyUsername: sess.Username,
		keyUserID:   strconv.FormatInt(sess.UserID, 10),
	} {
		err = sqlitex.Execute(s.conn, `INSERT INTO storage (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			&sqlitex.ExecOptions{Args: []any{k, v}})
		if err != nil {
			return fmt.Errorf("unable to store session value '%s': %w", k, err)
		}
	}
	return nil
}

// Clear removes everything from the storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sqlitex.Execute(s.conn, `DELETE FROM storage`, nil); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	return nil
}

// Close releases underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.conn.Close()
	s.conn = nil
	return err
}
