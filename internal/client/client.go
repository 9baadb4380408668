package client

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type LoopClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	// token is written once by a successful Login and read by the request
	// middleware. atomic.Value keeps the write visible to concurrent
	// in-flight requests without a lock.
	token atomic.Value
}

type ClientConfig struct {
	BaseURL  string
	Email    string
	Password string
}

// LoginPayload matches the JSON body required by POST /login
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse captures the session token returned by the API
type LoginResponse struct {
	Auth string `json:"auth"`
}

func New(cfg ClientConfig) *LoopClient {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)

	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")
	r.SetHeader("X-Api-Version", "1")

	c := &LoopClient{
		HTTP:   r,
		Config: cfg,
	}

	// Stamp every outgoing request with a fresh request ID and, once a login
	// succeeded, the session token.
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-Id", uuid.NewString())
		if tok := c.Token(); tok != "" {
			req.SetHeader("Authorization", "Token "+tok)
		}
		return nil
	})

	return c
}

// Token returns the current session token, or "" before a successful login.
func (c *LoopClient) Token() string {
	if v, ok := c.token.Load().(string); ok {
		return v
	}
	return ""
}

// SetToken seeds a previously persisted session token, so CLI commands can
// reuse a saved session instead of logging in again.
func (c *LoopClient) SetToken(token string) {
	c.token.Store(token)
}

// IsAuthenticated reports whether a session token is present.
func (c *LoopClient) IsAuthenticated() bool {
	return c.Token() != ""
}

// ensureAuthenticated gates every operation other than Login.
func (c *LoopClient) ensureAuthenticated() error {
	if !c.IsAuthenticated() {
		return &NotAuthenticatedError{}
	}
	return nil
}

// Login authenticates with the Loop API and stores the session token for all
// subsequent requests on this client. An HTTP-level success whose body lacks
// a usable token is a protocol failure (AuthenticationError), distinct from a
// transport or status failure.
func (c *LoopClient) Login(ctx context.Context, email, password string) error {
	if email == "" {
		return &InvalidArgumentError{Param: "email"}
	}
	if password == "" {
		return &InvalidArgumentError{Param: "password"}
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(LoginPayload{Email: email, Password: password}).
		Post("/login")

	body, err := unwrap(resp, err)
	if err != nil {
		return err
	}

	var login LoginResponse
	if jsonErr := json.Unmarshal([]byte(body), &login); jsonErr != nil || login.Auth == "" {
		return &AuthenticationError{Message: "received an empty auth token"}
	}

	c.token.Store(login.Auth)
	return nil
}
