package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultExpoURL is Expo's push gateway endpoint.
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// ExpoSender delivers messages through Expo's push gateway. Devices
// register an Expo token with their profile; the gateway fans out to
// APNs/FCM.
type ExpoSender struct {
	url    string
	client *http.Client
}

// NewExpoSender creates a sender against the public Expo gateway.
func NewExpoSender() *ExpoSender {
	return &ExpoSender{
		url:    DefaultExpoURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type expoRequest struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type expoResponse struct {
	Data struct {
		Status  string `json:"status"` // "ok" or "error"
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"data"`
}

// Send posts one message to the Expo gateway.
// PRE: msg.Token is a non-empty Expo token
// POST: Returns the Expo ticket id on acceptance
func (s *ExpoSender) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.Token == "" {
		return Result{}, fmt.Errorf("push message has no token")
	}

	body, err := json.Marshal(expoRequest{
		To:    msg.Token,
		Title: msg.Title,
		Body:  msg.Body,
		Sound: "default",
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("expo_send_failed", "error", err)
		return Result{}, fmt.Errorf("expo send failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("expo_send_rejected", "status", resp.StatusCode)
		return Result{}, fmt.Errorf("expo returned status %d", resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode expo response: %w", err)
	}
	if parsed.Data.Status == "error" {
		return Result{}, fmt.Errorf("expo ticket error: %s", parsed.Data.Message)
	}

	slog.Info("expo_sent", "ticket_id", parsed.Data.ID)
	return Result{TicketID: parsed.Data.ID}, nil
}
