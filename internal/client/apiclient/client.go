// Package apiclient talks to a running yardcms server over its JSON API.
// It keeps the session cookie set by Login in a cookie jar, so later calls
// are authenticated the same way a browser would be.
//
// Error responses are mapped to sentinel errors (ErrUnauthorized,
// ErrNotFound, ErrBadRequest, ErrUnavailable) that wrap the server's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/server/content"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the server at endpoint, e.g.
// "http://127.0.0.1:8080".
func New(endpoint string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
	}, nil
}

type apiError struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var e apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
	msg := e.Error
	if msg == "" {
		msg = resp.Status
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = ErrNotFound
	case resp.StatusCode >= 500:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrBadRequest
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// Login starts a session. The cookie is kept for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// CheckAuth returns the username of the current session.
func (c *Client) CheckAuth(ctx context.Context) (string, error) {
	var out struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/check-auth", nil, &out); err != nil {
		return "", err
	}
	if !out.Authenticated {
		return "", ErrUnauthorized
	}
	return out.Username, nil
}

func (c *Client) Content(ctx context.Context) (content.LiveContent, error) {
	var live content.LiveContent
	err := c.do(ctx, http.MethodGet, "/content", nil, &live)
	return live, err
}

// Update replaces the live content.
func (c *Client) Update(ctx context.Context, page *content.PageContent, gallery []content.GalleryImage) error {
	if gallery == nil {
		gallery = []content.GalleryImage{}
	}
	req := content.UpdateRequest{PageContent: page, GalleryImages: &gallery}
	return c.do(ctx, http.MethodPost, "/update-content", req, nil)
}

// History lists snapshot timestamps, newest first.
func (c *Client) History(ctx context.Context) ([]string, error) {
	var out struct {
		History []string `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/content-history", nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

func (c *Client) Snapshot(ctx context.Context, ts string) (content.LiveContent, error) {
	var snap content.LiveContent
	err := c.do(ctx, http.MethodGet, "/content-history/"+url.PathEscape(ts), nil, &snap)
	return snap, err
}

// Revert restores the snapshot at ts and returns the server's message.
func (c *Client) Revert(ctx context.Context, ts string) (string, error) {
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/revert-content", content.RevertRequest{Timestamp: ts}, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", errors.New("revert not acknowledged")
	}
	return out.Message, nil
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
