package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("supabase não configurado")

// APIError é uma resposta não-2xx do Supabase.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase api error: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	anonKey    string
	jwtSecret  string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey, jwtSecret string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		jwtSecret:  jwtSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// do envia a requisição e decodifica a resposta em out (quando não nil).
// bearer vazio usa a anon key, como o SDK faz para chamadas sem sessão.
func (c *Client) do(ctx context.Context, method, path, bearer string, headers map[string]string, in, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("erro ao serializar payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}

	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao chamar supabase: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = string(respBody)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("erro ao parsear resposta: %w", err)
	}
	return nil
}
