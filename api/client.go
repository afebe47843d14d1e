// Package api is a client of ChapterPrep REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chapterprep/config"
)

// TokenSource provides access token for authenticated calls.
type TokenSource func() (config.SecretString, error)

// Recorder receives summary of every exchange with server. *config.Report
// implements it.
type Recorder interface {
	RecordExchange(requestID, method, path string, status int, elapsed time.Duration)
}

// Client talks to ChapterPrep API. There are no retries - every failure is
// terminal for the operation.
type Client struct {
	base           *url.URL
	http           *http.Client
	timeout        time.Duration
	userAgent      string
	log            *zap.Logger
	token          TokenSource
	onUnauthorized func()
	recorder       Recorder
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithUnauthorizedHandler sets function called when server rejects token of
// an authenticated call. It is expected to forget local session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates client for API located at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bad API url '%s': %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bad API url '%s': unsupported scheme", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		// do not change client we may share with the caller
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

type call struct {
	method      string
	path        string
	authed      bool
	body        io.Reader
	contentType string
	out         any
	fallback    string
}

func (c *Client) do(ctx context.Context, cl call) error {
	rid, err := uuid.NewV7()
	if err != nil {
		rid = uuid.New()
	}
	log := c.log.With(zap.String("request", rid.String()), zap.String("method", cl.method), zap.String("path", cl.path))

	req, err := http.NewRequestWithContext(ctx, cl.method, c.base.String()+cl.path, cl.body)
	if err != nil {
		return fmt.Errorf("unable to prepare request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", rid.String())
	if len(cl.contentType) > 0 {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if len(c.userAgent) > 0 {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cl.authed {
		if c.token == nil {
			return errors.New("no token source for authenticated call")
		}
		token, err := c.token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token.Reveal())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn("Request failed", zap.Error(err))
		c.record(rid, cl, 0, time.Since(start))
		return ErrUnreachable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.record(rid, cl, resp.StatusCode, elapsed)
	if err != nil {
		log.Warn("Unable to read response", zap.Error(err))
		return ErrUnreachable
	}
	log.Debug("Request completed", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", elapsed))

	if resp.StatusCode == http.StatusUnauthorized && cl.authed {
		log.Warn("Server rejected access token, forgetting session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Detail: parseDetail(data, cl.fallback)}
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("malformed server response for %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) record(rid uuid.UUID, cl call, status int, elapsed time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordExchange(rid.String(), cl.method, cl.path, status, elapsed)
	}
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Login exchanges credentials for access token. Credentials go form-encoded.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var res LoginResult
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		out:         &res,
		fallback:    "invalid credentials",
	})
	if err != nil {
		return nil, err
	}
	if len(res.AccessToken) == 0 {
		return nil, errors.New("server returned no access token")
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, r RegisterRequest) (*RegisterResult, error) {
	body, err := jsonBody(r)
	if err != nil {
		return nil, err
	}
	var res RegisterResult
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        body,
		contentType: "application/json",
		out:         &res,
		fallback:    "unable to register",
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := c.do(ctx, call{method: http.MethodGet, path: "/books", authed: true, out: &books, fallback: "unable to load books"})
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	var book Book
	err := c.do(ctx, call{method: http.MethodGet, path: "/books/" + strconv.FormatInt(id, 10), authed: true, out: &book, fallback: "book not found"})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) CreateBook(ctx context.Context, b BookCreate) (*Book, error) {
	body, err := jsonBody(b)
	if err != nil {
		return nil, err
	}
	var book Book
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/books",
		authed:      true,
		body:        body,
		contentType: "application/json",
		out:         &book,
		fallback:    "unable to create book",
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/books/" + strconv.FormatInt(id, 10), authed: true, fallback: "unable to delete book"})
}

// ListChapters returns all chapters of the user, server does not group them by book.
func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	var chapters []Chapter
	err := c.do(ctx, call{method: http.MethodGet, path: "/chapters", authed: true, out: &chapters, fallback: "unable to load chapters"})
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

// CreateChapter creates provisional chapter and returns words server extracted
// from its text. Chapter stays provisional until ConfirmWords or DeleteChapter.
func (c *Client) CreateChapter(ctx context.Context, ch ChapterCreate) (*ChapterDraft, error) {
	body, err := jsonBody(ch)
	if err != nil {
		return nil, err
	}
	var draft ChapterDraft
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/chapters",
		authed:      true,
		body:        body,
		contentType: "application/json",
		out:         &draft,
		fallback:    "unable to save chapter",
	})
	if err != nil {
		return nil, err
	}
	if draft.Chapter.ID == 0 {
		return nil, errors.New("server returned chapter without id")
	}
	return &draft, nil
}

// ConfirmWords persists final word selection for the chapter.
func (c *Client) ConfirmWords(ctx context.Context, chapterID int64, words []Word) error {
	body, err := jsonBody(confirmRequest{Words: words})
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/chapters/" + strconv.FormatInt(chapterID, 10) + "/words",
		authed:      true,
		body:        body,
		contentType: "application/json",
		fallback:    "unable to save selected words",
	})
}

// DeleteChapter removes provisional or confirmed chapter.
func (c *Client) DeleteChapter(ctx context.Context, chapterID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/chapters/" + strconv.FormatInt(chapterID, 10), authed: true, fallback: "unable to delete chapter"})
}
