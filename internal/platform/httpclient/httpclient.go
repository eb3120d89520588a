package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 1 << 20
)

// Client envuelve *http.Client para hablar con la API REST del daycare.
// Maneja el bearer token, el prefijo de versión y el contrato de error {"message": ...}.
type Client struct {
	HTTP    *http.Client
	BaseURL string // p.ej. http://localhost:8080/api/v1

	mu    sync.RWMutex
	token string
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// SetToken fija el bearer token usado en cada request. "" lo borra.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// APIError es el único tipo de error que devuelve DoJSON.
// Status == 0 significa que no hubo respuesta (fallo de red/transporte).
type APIError struct {
	Status  int
	Message string
	Data    []byte
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	switch {
	case e.Message != "":
		return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api error: status=%d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsTransport indica que el request no obtuvo respuesta.
func (e *APIError) IsTransport() bool { return e.Status == 0 }

// StatusOf devuelve el status de un *APIError, o -1 si err no es uno.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// DoJSON hace un request JSON.
// - pathOrURL: URL absoluta o path relativo a BaseURL
// - in: body (nil = sin body)
// - out: destino del JSON (nil = ignora body). Un 204 deja out intacto.
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return &APIError{Err: errors.New("httpclient: nil client")}
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return &APIError{Err: err}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &APIError{Err: fmt.Errorf("httpclient: marshal json: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return &APIError{Err: fmt.Errorf("httpclient: new request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Err: fmt.Errorf("httpclient: do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := readAtMost(resp.Body, maxErrorBody)
		return newAPIError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	// Los listados no tienen tope de tamaño: se decodifica en streaming.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &APIError{Status: resp.StatusCode, Err: fmt.Errorf("httpclient: decode json: %w", err)}
	}
	return nil
}

// Download hace un GET y copia el body a w (p.ej. un export xlsx).
// Los errores siguen el mismo contrato que DoJSON.
func (c *Client) Download(ctx context.Context, pathOrURL string, w io.Writer) error {
	if c == nil || c.HTTP == nil {
		return &APIError{Err: errors.New("httpclient: nil client")}
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return &APIError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &APIError{Err: fmt.Errorf("httpclient: new request: %w", err)}
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Err: fmt.Errorf("httpclient: do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := readAtMost(resp.Body, maxErrorBody)
		return newAPIError(resp.StatusCode, raw)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &APIError{Status: resp.StatusCode, Err: fmt.Errorf("httpclient: read body: %w", err)}
	}
	return nil
}

func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status, Data: raw}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		e.Message = body.Message
	} else {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxErrorBody
	}
	return io.ReadAll(io.LimitReader(r, max))
}
