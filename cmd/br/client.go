package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/use-agent/br/registry"
)

// apiClient is a thin HTTP client bound to one running instance's port,
// resolved through the registry.
type apiClient struct {
	baseURL string
	http    *http.Client
}

// newClient resolves name against the registry and fails with
// errNoDaemon if it isn't registered or its process has died.
func newClient(name string) (*apiClient, error) {
	entry, ok, err := registry.Lookup(name)
	if err != nil || !ok {
		return nil, errNoDaemon()
	}
	return &apiClient{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", entry.Port),
		http:    &http.Client{Timeout: 35 * time.Second},
	}, nil
}

// response carries an HTTP result: status code and raw body bytes,
// read as text or decoded as JSON by the caller.
type response struct {
	status int
	body   []byte
}

func (r response) text() string { return string(r.body) }

func (r response) decode(v any) error {
	return json.Unmarshal(r.body, v)
}

func (c *apiClient) do(method, path string, payload any) (response, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return response{}, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return response{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, errNoDaemon()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}
	return response{status: resp.StatusCode, body: body}, nil
}

func (c *apiClient) get(path string) (response, error)              { return c.do(http.MethodGet, path, nil) }
func (c *apiClient) post(path string, payload any) (response, error) {
	return c.do(http.MethodPost, path, payload)
}

// asCLIError maps a non-2xx HTTP response to an exit-2 cliError
// carrying the daemon's plain-text error body, per spec §6's exit-code
// table (400/500 both map to exit 2 for the general command family).
func asCLIError(r response) error {
	return errBadInput(fmt.Sprintf("%s (status %d)", r.text(), r.status))
}
