// Package supabase talks to the hosted Supabase auth API (GoTrue) and
// verifies the access tokens it issues.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// Session is the token pair GoTrue hands out on sign-in, sign-up and refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// APIError is an error answered by GoTrue.
type APIError struct {
	Status  int    `json:"-"`
	ErrCode string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %s", e.Message)
}

func (e *APIError) Code() string { return e.ErrCode }

func (e *APIError) HTTPStatus() int {
	// anything the caller can fix is passed through, the rest is our problem
	if e.Status >= 400 && e.Status < 500 {
		return e.Status
	}
	return http.StatusBadGateway
}

// Client wraps the auth-go client with the calls the server needs.
type Client struct {
	auth auth.Client
}

// NewClient returns a client for the project at baseURL
// (https://<ref>.supabase.co).
func NewClient(baseURL, anonKey string) *Client {
	c := auth.New("", anonKey).
		WithCustomAuthURL(strings.TrimRight(baseURL, "/") + "/auth/v1").
		WithClient(http.Client{Timeout: 10 * time.Second})
	return &Client{auth: c}
}

// The auth-go calls take no context; a request already cancelled is not sent.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, apiError(err)
	}
	return fromSession(resp.Session), nil
}

// SignUp registers a user. With email confirmation on, the returned session
// has no tokens until the address is confirmed.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.auth.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, apiError(err)
	}
	// confirmation pending: the body is the bare user
	if resp.Session.AccessToken == "" {
		return &Session{User: fromUser(resp.User)}, nil
	}
	return fromSession(resp.Session), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, apiError(err)
	}
	return fromSession(resp.Session), nil
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.auth.WithToken(accessToken).Logout(); err != nil {
		return apiError(err)
	}
	return nil
}

func fromSession(s types.Session) *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		User:         fromUser(s.User),
	}
}

func fromUser(u types.User) User {
	return User{ID: u.ID.String(), Email: u.Email, Role: u.Role}
}

// auth-go reports non-2xx answers as "response status code <n>: <body>".
var statusErrRe = regexp.MustCompile(`(?s)response status code (\d+): (.*)`)

func apiError(err error) error {
	m := statusErrRe.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("supabase: %w", err)
	}
	status, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return fmt.Errorf("supabase: %w", errors.Join(err, convErr))
	}
	return parseAPIError(status, []byte(m[2]))
}

// parseAPIError understands both GoTrue error shapes:
// {"code":..,"error_code":..,"msg":..} and {"error":..,"error_description":..}.
func parseAPIError(status int, data []byte) *APIError {
	var body struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(data, &body)

	e := &APIError{Status: status}
	switch {
	case body.ErrorCode != "":
		e.ErrCode = body.ErrorCode
	case body.Error != "":
		e.ErrCode = body.Error
	}
	if s, ok := body.Code.(string); ok && e.ErrCode == "" {
		e.ErrCode = s
	}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
