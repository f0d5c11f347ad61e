package telegram

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newAPIStub(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func TestNilClientDropsCalls(t *testing.T) {
	var c *Client
	if err := c.SendMessage(context.Background(), 1, "hi", nil); err != nil {
		t.Fatalf("nil client send: %v", err)
	}
	if err := c.AnswerCallbackQuery(context.Background(), "q", ""); err != nil {
		t.Fatalf("nil client answer: %v", err)
	}
	if New("", "https://api.telegram.org") != nil {
		t.Fatal("expected nil client for empty token")
	}
}

func TestSendMessagePostsToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	ts := newAPIStub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	c := New("token123", ts.URL)
	markup := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: "Join", WebApp: &WebAppInfo{URL: "https://game.example/app"}}}},
	}
	if err := c.SendMessage(context.Background(), 42, "hello", markup); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["chat_id"] != float64(42) || gotBody["text"] != "hello" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if gotBody["parse_mode"] != "Markdown" {
		t.Fatalf("expected Markdown parse mode, got %v", gotBody["parse_mode"])
	}
	if _, ok := gotBody["reply_markup"]; !ok {
		t.Fatal("expected the inline keyboard in the body")
	}
}

func TestAnswerCallbackQuery(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	ts := newAPIStub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	c := New("token123", ts.URL)
	if err := c.AnswerCallbackQuery(context.Background(), "query-7", ""); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if gotPath != "/bottoken123/answerCallbackQuery" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["callback_query_id"] != "query-7" {
		t.Fatalf("unexpected body %v", gotBody)
	}
}

func TestCallReportsBadStatus(t *testing.T) {
	ts := newAPIStub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(ts.Close)

	c := New("token123", ts.URL)
	if err := c.SendMessage(context.Background(), 1, "hi", nil); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
