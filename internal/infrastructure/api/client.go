package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// Client is the shared HTTP plumbing for every remote service: JSON codec,
// bearer injection from the token source, one refresh-retry on 401, and
// mapping of failures onto the error taxonomy. Transport-level retry and
// backoff are deliberately absent.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     ports.TokenSource
	log        *logger.Logger
}

func NewClient(baseURL string, tokens ports.TokenSource, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		tokens:     tokens,
		log:        log,
	}
}

// errorBody is the envelope the backends use for failures.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		resp.Body.Close()

		access, authErr := c.tokens.HandleAuthError(ctx)
		if authErr != nil {
			return authErr
		}

		resp, err = c.send(ctx, method, path, payload, access)
		if err != nil {
			return err
		}
	}
	return c.finish(method+" "+path, resp, out)
}

// doWithToken issues one request with an explicit bearer token and no
// refresh-retry; auth endpoints use it to stay outside the 401 teardown
// they implement.
func (c *Client) doWithToken(ctx context.Context, method, path, accessToken string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, method, path, payload, accessToken)
	if err != nil {
		return err
	}
	return c.finish(method+" "+path, resp, out)
}

func (c *Client) finish(op string, resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &domainErrors.AuthError{Op: op}
	}

	if resp.StatusCode >= 400 {
		return c.mapFailure(op, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domainErrors.NetworkError{Op: op, Err: err}
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if accessToken == "" && c.tokens != nil {
		accessToken, _ = c.tokens.Token(ctx)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domainErrors.NetworkError{Op: method + " " + path, Err: err}
	}
	return resp, nil
}

func (c *Client) mapFailure(op string, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode < 500 && len(body.Errors) > 0 {
		return &domainErrors.ValidationError{Fields: body.Errors}
	}

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = string(bytes.TrimSpace(raw))
	}
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, msg)
}
