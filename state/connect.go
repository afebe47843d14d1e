package state

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chapterprep/api"
	"chapterprep/config"
	"chapterprep/misc"
	"chapterprep/session"
)

// ErrLoginRequired is returned by commands which need stored session when
// there is none.
var ErrLoginRequired = errors.New("please log in first")

// Connect opens session storage and prepares API client. Client picks up
// access token from storage on every call and wipes storage when server
// rejects the token.
func (e *LocalEnv) Connect() error {
	if e.API != nil {
		return nil
	}
	log := e.logger()

	store, err := session.Open(e.Cfg.Session.Path)
	if err != nil {
		return err
	}

	opts := []api.Option{
		api.WithTimeout(e.Cfg.API.Timeout),
		api.WithUserAgent(e.Cfg.API.UserAgent + "/" + misc.GetVersion()),
		api.WithLogger(log.Named("api")),
		api.WithTokenSource(func() (config.SecretString, error) {
			sess, err := store.Load()
			if err != nil {
				return "", err
			}
			return sess.Token, nil
		}),
		api.WithUnauthorizedHandler(func() {
			if err := store.Clear(); err != nil {
				log.Warn("Unable to clear session", zap.Error(err))
				return
			}
			log.Debug("Session cleared, server rejected access token")
		}),
	}
	if e.Rpt != nil {
		opts = append(opts, api.WithRecorder(e.Rpt))
	}

	client, err := api.New(e.Cfg.API.URL, opts...)
	if err != nil {
		return multierr.Append(err, store.Close())
	}
	e.Session, e.API = store, client
	return nil
}

// RequireSession returns stored session or ErrLoginRequired.
func (e *LocalEnv) RequireSession() (session.Session, error) {
	if e.Session == nil {
		return session.Session{}, ErrLoginRequired
	}
	sess, err := e.Session.Load()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, ErrLoginRequired
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("unable to read session: %w", err)
	}
	return sess, nil
}

// Disconnect releases session storage.
func (e *LocalEnv) Disconnect() error {
	if e.Session == nil {
		return nil
	}
	err := e.Session.Close()
	e.Session, e.API = nil, nil
	return err
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
