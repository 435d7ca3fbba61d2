package figma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithRetry(2, time.Millisecond),
	}
	c, err := New("test-token", "FILEKEY", append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := New("tok", ""); err == nil {
		t.Error("expected error for empty file key")
	}
	if _, err := New("tok", "key", WithBaseURL("")); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestFetchDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/files/FILEKEY" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Figma-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"status":403,"err":"Invalid token"}`))
			return
		}
		w.Write([]byte(`{"name":"App","document":{"id":"0:0","type":"DOCUMENT","children":[{"id":"0:1","name":"Page 1"}]}}`))
	}))
	defer server.Close()

	doc, err := newTestClient(t, server).FetchDocument(context.Background())
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if doc.Name != "App" || len(doc.Document.Children) != 1 || doc.Document.Children[0].Name != "Page 1" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestFetchDocument_Unauthorized(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":403,"err":"Invalid token"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).FetchDocument(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected IsUnauthorized, got: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("document fetch made %d calls, want 1", calls.Load())
	}
}

func TestRenderNode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/FILEKEY" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("format") != "png" {
			http.Error(w, "bad format", http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("ids") {
		case "1:2":
			w.Write([]byte(`{"err":null,"images":{"1:2":"https://cdn.example/1-2.png"}}`))
		default:
			w.Write([]byte(`{"err":null,"images":{"9:9":null}}`))
		}
	}))
	defer server.Close()

	c := newTestClient(t, server)

	got, err := c.RenderNode(context.Background(), "1:2")
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if got != "https://cdn.example/1-2.png" {
		t.Errorf("RenderNode = %q", got)
	}

	got, err = c.RenderNode(context.Background(), "9:9")
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty URL for unrenderable node, got %q", got)
	}
}

func TestRenderNode_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"images":{"1:2":"https://cdn.example/x.png"}}`))
	}))
	defer server.Close()

	got, err := newTestClient(t, server).RenderNode(context.Background(), "1:2")
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if got != "https://cdn.example/x.png" {
		t.Errorf("RenderNode = %q", got)
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestRenderNode_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).RenderNode(context.Background(), "1:2")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestRenderNode_APIErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"err":"Render timeout","images":{}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).RenderNode(context.Background(), "1:2")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("made %d calls, want 1", calls.Load())
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Figma-Token") != "" {
			t.Error("token must not be sent to image hosts")
		}
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("PNGDATA"))
	}))
	defer server.Close()

	c := newTestClient(t, server)

	data, err := c.Download(context.Background(), server.URL+"/a.png?sig=1")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("Download = %q", data)
	}

	_, err = c.Download(context.Background(), server.URL+"/missing.png")
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got: %v", err)
	}

	if _, err := c.Download(context.Background(), ""); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestAPIError(t *testing.T) {
	err := newAPIError("render node", http.StatusBadRequest, []byte(`{"message":"bad ids"}`))
	if err.Error() != "render node: status 400: bad ids" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Temporary() {
		t.Error("400 must not be temporary")
	}

	err = newAPIError("download", http.StatusServiceUnavailable, []byte("<html>"))
	if err.Error() != "download: status 503" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !err.Temporary() {
		t.Error("503 must be temporary")
	}
}
