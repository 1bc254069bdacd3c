package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSender(url string) *ExpoSender {
	return &ExpoSender{url: url, client: &http.Client{Timeout: time.Second}}
}

func TestExpoSender_Send(t *testing.T) {
	var got expoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"status":"ok","id":"ticket-1"}}`))
	}))
	defer srv.Close()

	result, err := testSender(srv.URL).Send(context.Background(), Message{
		Token: "ExponentPushToken[abc]",
		Title: "Gym closed",
		Body:  "No classes Friday",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TicketID != "ticket-1" {
		t.Errorf("expected ticket-1, got %s", result.TicketID)
	}
	if got.To != "ExponentPushToken[abc]" || got.Title != "Gym closed" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestExpoSender_TicketError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"status":"error","message":"DeviceNotRegistered"}}`))
	}))
	defer srv.Close()

	_, err := testSender(srv.URL).Send(context.Background(), Message{Token: "tok"})
	if err == nil {
		t.Fatal("expected error for rejected ticket")
	}
}

func TestExpoSender_EmptyToken(t *testing.T) {
	_, err := NewExpoSender().Send(context.Background(), Message{})
	if err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestExecutor_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"status":"ok","id":"ticket-2"}}`))
	}))
	defer srv.Close()

	exec := NewExecutor(testSender(srv.URL))
	id, err := exec.Execute(context.Background(), `{"token":"tok","title":"t","body":"b"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "ticket-2" {
		t.Errorf("expected ticket-2, got %s", id)
	}
}

func TestExecutor_BadPayload(t *testing.T) {
	exec := NewExecutor(NewNoopSender())
	if _, err := exec.Execute(context.Background(), "{not json"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
