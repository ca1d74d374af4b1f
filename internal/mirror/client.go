package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/leostarkx/MyBatch/internal/identity"
	"github.com/leostarkx/MyBatch/internal/live"
)

// Client talks to the MyBatch backend: auth, profile fetch and the live
// snapshot stream. One Client serves one session.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
	uid   string
}

// NewClient builds a client against baseURL (e.g. "http://localhost:8081").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthError carries the backend's auth failure code and its fixed
// user-facing message.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string { return e.Code }

// Message returns the user-facing text for this failure.
func (e *AuthError) Message() string { return AuthMessage(e.Code) }

type authResponse struct {
	User        identity.User `json:"user"`
	AccessToken string        `json:"access_token"`
}

// SignIn authenticates and stores the session token. Failures come back
// as *AuthError.
func (c *Client) SignIn(ctx context.Context, username, password string) (identity.User, error) {
	return c.authenticate(ctx, "/v1/auth/signin", map[string]string{
		"username": username,
		"password": password,
	})
}

// SignUp registers a new account and stores the session token.
func (c *Client) SignUp(ctx context.Context, username, password, name string) (identity.User, error) {
	return c.authenticate(ctx, "/v1/auth/signup", map[string]string{
		"username": username,
		"password": password,
		"name":     name,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (identity.User, error) {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return identity.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return identity.User{}, &AuthError{Code: CodeInternal}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		code := failure.Error
		if _, known := authMessages[code]; !known {
			code = CodeInternal
		}
		return identity.User{}, &AuthError{Code: code}
	}

	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return identity.User{}, &AuthError{Code: CodeInternal}
	}

	c.mu.Lock()
	c.token = out.AccessToken
	c.uid = out.User.UID
	c.mu.Unlock()
	return out.User, nil
}

// SignOut drops the stored token.
func (c *Client) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.uid = ""
}

// UID returns the signed-in user id, empty when anonymous.
func (c *Client) UID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid
}

func (c *Client) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Profile fetches the caller's own profile document. It maps 404 to
// ErrNotFound and 401/403 to ErrPermission so the session bootstrap can
// retry through both.
func (c *Client) Profile(ctx context.Context, uid string) (identity.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/me", nil)
	if err != nil {
		return identity.User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer())

	resp, err := c.http.Do(req)
	if err != nil {
		return identity.User{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var u identity.User
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return identity.User{}, err
		}
		return u, nil
	case http.StatusNotFound:
		return identity.User{}, ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return identity.User{}, ErrPermission
	default:
		return identity.User{}, fmt.Errorf("profile fetch: status %d", resp.StatusCode)
	}
}

// Subscribe opens the snapshot stream for the set's collections and
// dispatches frames until ctx is canceled or the connection drops. It
// refuses to connect without a session token. The returned stop function
// closes the socket; decode errors are logged and skipped, matching how
// transient subscription errors are treated everywhere else.
func (c *Client) Subscribe(ctx context.Context, set *Set) (stop func(), err error) {
	token := c.bearer()
	if token == "" {
		return nil, ErrPermission
	}

	wsURL, err := url.Parse(c.baseURL + "/v1/subscribe")
	if err != nil {
		return nil, err
	}
	switch wsURL.Scheme {
	case "http":
		wsURL.Scheme = "ws"
	case "https":
		wsURL.Scheme = "wss"
	}
	q := wsURL.Query()
	q.Set("collections", strings.Join(set.Collections(), ","))
	wsURL.RawQuery = q.Encode()

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var frame live.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("mirror: stream ended: %v", err)
				}
				return
			}
			if err := set.Dispatch(frame); err != nil {
				log.Printf("mirror: %v", err)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { conn.Close() })
	}, nil
}
