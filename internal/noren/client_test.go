package noren

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCallEnvelope(t *testing.T) {
	var gotBody, gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"stat":"Ok","susertoken":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp := c.Call(context.Background(), EndpointQuickAuth, map[string]string{"uid": "FA123"}, "tok")

	if !resp.OK() {
		t.Fatalf("expected Ok, got %s (%s)", resp.Stat, resp.Emsg)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/QuickAuth" {
		t.Errorf("expected /QuickAuth path, got %s", gotPath)
	}
	if gotBody != `jData={"uid":"FA123"}&jKey=tok` {
		t.Errorf("unexpected envelope: %s", gotBody)
	}
}

func TestCallEmptyTokenKeepsKey(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"stat":"Ok"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	c.Call(context.Background(), EndpointQuickAuth, map[string]string{}, "")

	if !strings.HasSuffix(gotBody, "&jKey=") {
		t.Errorf("login envelope must keep the empty jKey field, got %s", gotBody)
	}
}

func TestCallBrokerRejectionPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stat":"Not_Ok","emsg":"Session Expired"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp := c.Call(context.Background(), EndpointOrderBook, map[string]string{}, "tok")

	if resp.OK() {
		t.Fatal("expected Not_Ok")
	}
	if resp.Emsg != "Session Expired" {
		t.Errorf("broker emsg must pass through verbatim, got %q", resp.Emsg)
	}
}

func TestCallArrayBodyIsOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"norenordno":"1"},{"norenordno":"2"}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp := c.Call(context.Background(), EndpointOrderBook, map[string]string{}, "tok")

	if !resp.OK() {
		t.Fatalf("array bodies are success responses, got %s", resp.Stat)
	}
	if len(resp.Raw) == 0 {
		t.Error("expected verbatim raw body")
	}
}

func TestCallTransportFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	c := NewClient(WithBaseURL(srv.URL))
	resp := c.Call(context.Background(), EndpointGetQuotes, map[string]string{}, "tok")

	if resp.OK() {
		t.Fatal("expected degraded Not_Ok response")
	}
	if resp.Emsg == "" {
		t.Error("expected a descriptive error message")
	}
}

func TestCallNoRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"stat":"Not_Ok","emsg":"boom"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp := c.Call(context.Background(), EndpointPlaceOrder, map[string]string{}, "tok")

	if resp.OK() {
		t.Fatal("expected Not_Ok")
	}
	if calls != 1 {
		t.Errorf("client must issue exactly one attempt, got %d", calls)
	}
	if resp.Emsg != "boom" {
		t.Errorf("expected body emsg over status line, got %q", resp.Emsg)
	}
}
