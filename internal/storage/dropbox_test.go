package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/contractviewer/internal/apperr"
)

// fakeDropbox serves both the token and the content endpoints.
type fakeDropbox struct {
	tokenCalls atomic.Int32
	tokenFail  bool
	handler    http.HandlerFunc
}

func (f *fakeDropbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/oauth2/token":
		f.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if f.tokenFail {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"refresh token is malformed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":14400}`))
	case "/2/files/download":
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error_summary":"invalid_access_token/..."}`))
			return
		}
		f.handler(w, r)
	default:
		http.NotFound(w, r)
	}
}

func newTestDropbox(t *testing.T, f *fakeDropbox) *Dropbox {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewDropbox(
		DropboxCredentials{AppKey: "key", AppSecret: "secret", RefreshToken: "refresh"},
		WithEndpoints(srv.URL+"/oauth2/token", srv.URL+"/2"),
		WithHTTPClient(srv.Client()),
	)
}

func TestDropboxDownload(t *testing.T) {
	var gotArg string
	f := &fakeDropbox{handler: func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotArg = r.Header.Get("Dropbox-API-Arg")
		w.Header().Set("Dropbox-API-Result", `{"name":"data.json","path_display":"/Data.json","server_modified":"2024-03-01T10:00:00Z","size":17}`)
		_, _ = w.Write([]byte(`{"summary":"ok"}` + "\n"))
	}}
	d := newTestDropbox(t, f)

	obj, err := d.Download(context.Background(), "/data.json")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if gotArg != `{"path":"/data.json"}` {
		t.Errorf("Dropbox-API-Arg = %q", gotArg)
	}
	if obj.Path != "/Data.json" {
		t.Errorf("path = %q", obj.Path)
	}
	if obj.Size != 17 {
		t.Errorf("size = %d", obj.Size)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !obj.LastModified.Equal(want) {
		t.Errorf("last modified = %v", obj.LastModified)
	}
	if !strings.HasPrefix(string(obj.Data), `{"summary":"ok"}`) {
		t.Errorf("data = %q", obj.Data)
	}

	// Second call reuses the cached access token.
	if _, err := d.Download(context.Background(), "/data.json"); err != nil {
		t.Fatalf("second Download: %v", err)
	}
	if n := f.tokenCalls.Load(); n != 1 {
		t.Errorf("token calls = %d, want 1", n)
	}
}

func TestDropboxDownload_NonASCIIPath(t *testing.T) {
	var gotArg string
	f := &fakeDropbox{handler: func(w http.ResponseWriter, r *http.Request) {
		gotArg = r.Header.Get("Dropbox-API-Arg")
		w.Header().Set("Dropbox-API-Result", `{"name":"x.json","path_display":"","size":0}`)
		_, _ = w.Write([]byte(`{}`))
	}}
	d := newTestDropbox(t, f)

	const path = "/huur/contract-é.json"
	obj, err := d.Download(context.Background(), path)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	var arg map[string]string
	if err := json.Unmarshal([]byte(gotArg), &arg); err != nil {
		t.Fatalf("Dropbox-API-Arg %q: %v", gotArg, err)
	}
	if arg["path"] != path {
		t.Errorf("arg path = %q", arg["path"])
	}
	// Empty result fields fall back to the request.
	if obj.Path != path || obj.Size != 2 {
		t.Errorf("obj = %+v", obj)
	}
}

func TestDropboxDownload_NotFound(t *testing.T) {
	f := &fakeDropbox{handler: func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error_summary":"path/not_found/..","error":{".tag":"path","path":{".tag":"not_found"}}}`))
	}}
	d := newTestDropbox(t, f)

	_, err := d.Download(context.Background(), "/missing.json")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Summary != "path/not_found" {
		t.Errorf("summary = %q", apiErr.Summary)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Error("expected ErrNotFound")
	}
}

func TestDropboxDownload_PlainTextError(t *testing.T) {
	f := &fakeDropbox{handler: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Error in call to API function \"files/download\": bad arg\n"))
	}}
	d := newTestDropbox(t, f)

	_, err := d.Download(context.Background(), "/x.json")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if !strings.Contains(apiErr.Summary, "bad arg") {
		t.Errorf("summary = %q", apiErr.Summary)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		t.Error("plain error must not map to ErrNotFound")
	}
}

func TestDropboxDownload_TokenFailure(t *testing.T) {
	f := &fakeDropbox{tokenFail: true, handler: func(w http.ResponseWriter, r *http.Request) {
		t.Error("content endpoint must not be reached")
	}}
	d := newTestDropbox(t, f)

	_, err := d.Download(context.Background(), "/data.json")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Op != "token" {
		t.Errorf("op = %q", apiErr.Op)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Summary, "invalid_grant") {
		t.Errorf("summary = %q", apiErr.Summary)
	}
}

func TestDropboxDownload_ContextCancelled(t *testing.T) {
	f := &fakeDropbox{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}}
	d := newTestDropbox(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Download(ctx, "/data.json")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAgentTransport_SetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewHTTPClient(time.Second)
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got != UserAgent {
		t.Errorf("User-Agent = %q", got)
	}
}
