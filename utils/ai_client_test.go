package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
)

func gatewayReply(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func testClient(url string, maxRetries int) *SuggestClient {
	return NewSuggestClient(config.AppConfig{
		AIGatewayURL: url,
		AIGatewayKey: "test-key",
		AIModel:      "test-model",
		AITimeoutSec: 5,
		AIMaxRetries: maxRetries,
	})
}

func TestSuggestParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req["model"] != "test-model" {
			t.Errorf("model = %v", req["model"])
		}
		w.Write([]byte(gatewayReply(`[{"title":"review notes","category":"work","points":10,"reason":"follow-up"}]`)))
	}))
	defer srv.Close()

	suggestions, err := testClient(srv.URL, 0).Suggest(context.Background(), []TaskBrief{
		{Title: "write notes", Category: "work", Points: 10, Completed: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 1 || suggestions[0].Title != "review notes" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
}

func TestSuggestCapsAtFive(t *testing.T) {
	many := make([]string, 8)
	for i := range many {
		many[i] = `{"title":"t","category":"c","points":1,"reason":"r"}`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply("[" + strings.Join(many, ",") + "]")))
	}))
	defer srv.Close()

	suggestions, err := testClient(srv.URL, 0).Suggest(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(suggestions))
	}
}

func TestSuggestStripsCodeFence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply("```json\n[{\"title\":\"t\",\"category\":\"c\",\"points\":1,\"reason\":\"r\"}]\n```")))
	}))
	defer srv.Close()

	suggestions, err := testClient(srv.URL, 0).Suggest(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
}

func TestSuggestRetriesServerErrors(t *testing.T) {
	oldDelay := aiInitialDelay
	aiInitialDelay = time.Millisecond
	defer func() { aiInitialDelay = oldDelay }()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(gatewayReply("[]")))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL, 3).Suggest(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestSuggestDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad prompt"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Suggest(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad prompt") {
		t.Fatalf("error does not surface gateway message: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestSuggestUnconfigured(t *testing.T) {
	client := NewSuggestClient(config.AppConfig{})
	if _, err := client.Suggest(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing configuration")
	}
}

func TestMindmapParsesClusters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply(`[{"name":"Work","tasks":["write report","send invoice"]}]`)))
	}))
	defer srv.Close()

	clusters, err := testClient(srv.URL, 0).Mindmap(context.Background(), []TaskBrief{
		{Title: "write report"}, {Title: "send invoice"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 || clusters[0].Name != "Work" || len(clusters[0].Tasks) != 2 {
		t.Fatalf("unexpected clusters: %+v", clusters)
	}
}
