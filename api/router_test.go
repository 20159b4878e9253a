package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/use-agent/br/api"
	"github.com/use-agent/br/config"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/humanlike"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

func newTestRouter(t *testing.T) (*httptest.Server, *driver.FakePage) {
	t.Helper()
	st := instance.NewState()
	fb := driver.NewFakeBrowser()
	page, err := fb.NewPage(nil)
	require.NoError(t, err)
	fp := page.(*driver.FakePage)
	fp.SetHTML(`<html><body><button id="submit">Go</button></body></html>`)
	st.AddPage(page)

	pacer := humanlike.NewPacer(false)
	r := api.NewRouter(st, pacer, &config.Config{}, func() {})
	return httptest.NewServer(r), fp
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

// TestHealthEndpoint covers spec §8 S1: a fresh instance reports healthy.
func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestExistsPresentAndMissing covers the exists=true/false split that
// backs the CLI's exit 0/1 distinction (spec §8 testable property 7).
func TestExistsPresentAndMissing(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp := postJSON(t, srv, "/exists", models.ExistsRequest{Selector: "#submit"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var present models.BoolResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&present))
	require.True(t, present.Result)

	resp2 := postJSON(t, srv, "/exists", models.ExistsRequest{Selector: "#nope"})
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var missing models.BoolResultResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&missing))
	require.False(t, missing.Result)
}

// TestExistsBadInputIsPlainText covers the wire-format rule that error
// bodies are plain text, not a JSON envelope.
func TestExistsBadInputIsPlainText(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp := postJSON(t, srv, "/exists", map[string]string{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
}

// TestHistoryRecordsActions covers history accumulation across calls.
func TestHistoryRecordsActions(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp := postJSON(t, srv, "/exists", models.ExistsRequest{Selector: "#submit"})
	resp.Body.Close()

	hresp, err := http.Get(srv.URL + "/history")
	require.NoError(t, err)
	defer hresp.Body.Close()
	require.Equal(t, http.StatusOK, hresp.StatusCode)

	var history struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(hresp.Body).Decode(&history))
	require.NotEmpty(t, history.Entries)
}
